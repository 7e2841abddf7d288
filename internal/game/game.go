// Package game is the desktop front end: it plays an audio file, analyzes
// what is playing and shows the laser and haze layers in an ebiten window.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/config"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/layer"
	"github.com/iburimskiy/laser-visualization/internal/logging"
	"github.com/iburimskiy/laser-visualization/internal/palette"
	"github.com/iburimskiy/laser-visualization/internal/raster"
	"github.com/iburimskiy/laser-visualization/internal/show"
)

// Game implements ebiten.Game.
type Game struct {
	cfg      config.Show
	engine   *show.Engine
	palettes *palette.Cycler
	analyzer *audio.Analyzer
	player   *Player

	frame audio.Frame
	out   show.Output

	laserImg *ebiten.Image
	hazeImg  *ebiten.Image

	// progress bar
	progressBarHovered  bool
	progressBarDragging bool

	// button state
	buttonHovered bool
	buttonPressed bool

	lastErr error
}

// New builds the show described by cfg. seed makes the random effects
// reproducible.
func New(cfg config.Show, seed uint64) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	interps, err := cfg.Interpreters(seed)
	if err != nil {
		return nil, err
	}
	palettes, err := cfg.Palettes()
	if err != nil {
		return nil, err
	}

	laser := layer.NewLaser(cfg.Width, cfg.Height)
	laser.SetGlow(cfg.Laser.Glow)
	laser.SetBeamIntensity(cfg.Laser.BeamIntensity)
	laser.SetEnabled(cfg.Laser.Enabled)

	haze := layer.NewHaze(cfg.Width, cfg.Height, cfg.Haze.Density)
	haze.SetEnabled(cfg.Haze.Enabled)

	logging.Logger().Debug("show built",
		slog.Int("interpreters", len(interps)),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.String("palette", cfg.Palette))

	return &Game{
		cfg:      cfg,
		engine:   show.New(laser, haze, interps...),
		palettes: palettes,
		analyzer: audio.NewAnalyzer(cfg.AnalyzerConfig(0)),
		player:   NewPlayer(config.VisualRingSize),
	}, nil
}

// Play starts playing path, as if it had been picked in the dialog.
func (g *Game) Play(path string) error {
	if err := g.player.Load(path); err != nil {
		return err
	}
	g.analyzer = audio.NewAnalyzer(g.cfg.AnalyzerConfig(int(g.player.SampleRate())))
	return nil
}

// Close stops playback.
func (g *Game) Close() { g.player.Close() }

func (g *Game) Update() error {
	mouseX, mouseY := ebiten.CursorPosition()
	g.updateButton(mouseX, mouseY)
	g.updateProgressBar(mouseX, mouseY)

	for key, b := range keyBindings {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.apply(b); err != nil {
				return err
			}
		}
	}
	g.analyzer.SetManual(audio.Strobe, held(strobeKey))
	g.analyzer.SetManual(audio.Pulse, held(pulseKey))

	g.player.Update()
	g.frame = g.analyzer.Update(g.player.Recent(g.analyzer.WindowSize()))
	g.palettes.Advance()
	g.out = g.engine.Tick(g.frame, g.palettes.Current())
	return nil
}

func held(k ebiten.Key) float64 {
	if ebiten.IsKeyPressed(k) {
		return 1
	}
	return 0
}

func (g *Game) updateButton(mouseX, mouseY int) {
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.lastErr = g.openDialog()
		}
		g.buttonPressed = false
	}
}

func (g *Game) openDialog() error {
	before := g.player.SampleRate()
	if err := g.player.OpenDialog(); err != nil {
		return err
	}
	if g.player.Loaded() && g.player.SampleRate() != before {
		g.analyzer = audio.NewAnalyzer(g.cfg.AnalyzerConfig(int(g.player.SampleRate())))
	}
	return nil
}

func progressBarRect() (x, y, w, h int) {
	return config.ProgressX, config.ProgressY, config.WindowWidth - 2*config.ProgressX, config.ProgressHeight
}

func (g *Game) updateProgressBar(mouseX, mouseY int) {
	barX, barY, barWidth, barHeight := progressBarRect()
	// Generous vertical hit area around the thin bar.
	g.progressBarHovered = mouseX >= barX && mouseX <= barX+barWidth &&
		mouseY >= barY-8 && mouseY <= barY+barHeight+8

	if !g.player.Loaded() || g.player.Duration() <= 0 {
		g.progressBarDragging = false
		return
	}
	if g.progressBarHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.progressBarDragging = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.progressBarDragging = false
	}
	if g.progressBarDragging {
		target := geom.Clamp01(float64(mouseX-barX) / float64(barWidth))
		// Only seek if the position changed significantly (avoid micro-seeks)
		if math.Abs(target-g.player.Progress()) > 0.01 {
			if err := g.player.Seek(target); err != nil {
				g.lastErr = err
			}
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 4, G: 4, B: 10, A: 255})

	g.drawLayer(screen, &g.hazeImg, g.out.Haze, hazeBlend)
	g.drawLayer(screen, &g.laserImg, g.out.Laser, laserBlend)

	g.drawButton(screen)
	g.drawProgressBar(screen)
	g.drawStatus(screen)
}

// Layer buffers hold straight alpha, so both blends weight the source color
// by its alpha instead of relying on ebiten's premultiplied defaults.
var (
	// laserBlend adds alpha-weighted laser light onto the scene.
	laserBlend = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorSourceAlpha,
		BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	// hazeBlend is source-over for a straight-alpha source.
	hazeBlend = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorSourceAlpha,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
)

// drawLayer uploads buf into *img and composites it over the whole screen.
// A nil buf means the layer had nothing to show this tick.
func (g *Game) drawLayer(screen *ebiten.Image, img **ebiten.Image, buf *raster.Buffer, blend ebiten.Blend) {
	if buf == nil {
		return
	}
	if *img == nil {
		*img = ebiten.NewImage(buf.Width, buf.Height)
	}
	(*img).WritePixels(buf.Pix)

	op := &ebiten.DrawImageOptions{Blend: blend}
	op.GeoM.Scale(
		float64(config.WindowWidth)/float64(buf.Width),
		float64(config.WindowHeight)/float64(buf.Height),
	)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(*img, op)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	switch {
	case g.buttonPressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case g.buttonHovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	}

	x, y := float32(config.ButtonX), float32(config.ButtonY)
	w, h := float32(config.ButtonWidth), float32(config.ButtonHeight)
	vector.DrawFilledRect(screen, x, y, w, h, bgColor, false)
	vector.StrokeRect(screen, x, y, w, h, 2, color.RGBA{R: 150, G: 170, B: 200, A: 255}, false)

	text := "Open File"
	textWidth := len(text) * 8 // Approximate character width
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) drawProgressBar(screen *ebiten.Image) {
	if !g.player.Loaded() || g.player.Duration() <= 0 {
		return
	}
	barX, barY, barWidth, barHeight := progressBarRect()
	progress := g.player.Progress()

	vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(barWidth), float32(barHeight), color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	if progress > 0 {
		fill := rgba(g.palettes.Current().Primary, 200)
		vector.DrawFilledRect(screen, float32(barX), float32(barY), float32(progress*float64(barWidth)), float32(barHeight), fill, false)
	}
	indicatorX := float32(float64(barX) + progress*float64(barWidth))
	vector.DrawFilledCircle(screen, indicatorX, float32(barY+barHeight/2), 6, color.White, false)

	ebitenutil.DebugPrintAt(screen, formatDuration(g.player.Position()), barX, barY-18)
	total := formatDuration(g.player.Duration())
	ebitenutil.DebugPrintAt(screen, total, barX+barWidth-len(total)*6, barY-18)

	if g.progressBarHovered {
		mouseX, _ := ebiten.CursorPosition()
		at := geom.Clamp01(float64(mouseX-barX) / float64(barWidth))
		tip := formatDuration(time.Duration(at * float64(g.player.Duration())))
		ebitenutil.DebugPrintAt(screen, tip, mouseX-len(tip)*3, barY-34)
	}
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	var status string
	switch {
	case !g.player.Loaded():
		status = "Click the button below to open an audio file"
	case g.player.Paused():
		status = "Paused - Space to play"
	default:
		status = "Playing - Space to pause"
	}
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)

	laser := g.engine.Laser()
	st := laser.Stats()
	lines := []string{
		fmt.Sprintf("TPS %.0f  palette %d  glow %v  beam %.1f", ebiten.ActualTPS(), g.palettes.Index(), laser.Glow(), laser.BeamIntensity()),
		fmt.Sprintf("bass %.2f  treble %.2f  energy %.2f  sustain %.2f",
			g.frame.Bass(), g.frame.Treble(), g.frame.Energy(), g.frame.SustainedBass()),
		fmt.Sprintf("fan %d  scan %d  matrix %d  chase %d  burst %d  spiral %d  tunnel %d",
			st.FanBeams, st.ScanBeams, st.MatrixPoints, st.Chasers, st.BurstBeams, st.Spirals, st.TunnelRings),
		effectLine(g.engine),
		"1-7 effects  G glow  Up/Down beam  C palette  H haze  S strobe  P pulse  Esc quit",
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, 12, config.ButtonY+config.ButtonHeight+12+i*16)
	}
}

func effectLine(e *show.Engine) string {
	kinds := []effects.Kind{
		effects.KindFan, effects.KindScan, effects.KindMatrix, effects.KindChase,
		effects.KindBurst, effects.KindSpiral, effects.KindTunnel,
	}
	parts := make([]string, 0, len(kinds))
	for i, k := range kinds {
		mark := "-"
		if e.Enabled(k) {
			mark = "+"
		}
		parts = append(parts, fmt.Sprintf("%d%s%s", i+1, mark, k))
	}
	return strings.Join(parts, " ")
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}
