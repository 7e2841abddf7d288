// Command laser-preview runs the laser show in a terminal against a
// synthetic beat, without audio hardware or a window.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/config"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/layer"
	"github.com/iburimskiy/laser-visualization/internal/logging"
	"github.com/iburimskiy/laser-visualization/internal/palette"
	"github.com/iburimskiy/laser-visualization/internal/show"
)

var effectKeys = map[rune]effects.Kind{
	'1': effects.KindFan,
	'2': effects.KindScan,
	'3': effects.KindMatrix,
	'4': effects.KindChase,
	'5': effects.KindBurst,
	'6': effects.KindSpiral,
	'7': effects.KindTunnel,
}

type preview struct {
	screen   tcell.Screen
	engine   *show.Engine
	palettes *palette.Cycler
	synth    *synth

	strobe, pulse bool
	paused        bool
}

func main() {
	configPath := flag.String("config", "", "YAML show file (defaults are used when empty)")
	seed := flag.Uint64("seed", 1, "seed for the random effects and the synthetic beat")
	fps := flag.Int("fps", 30, "ticks per second")
	bpm := flag.Float64("bpm", 128, "tempo of the synthetic beat")
	logPath := flag.String("log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(*configPath, *seed, *fps, *bpm, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string, seed uint64, fps int, bpm float64, logPath string) error {
	if fps < 1 {
		return fmt.Errorf("fps must be >= 1, got %d", fps)
	}
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		logging.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}
	interps, err := cfg.Interpreters(seed)
	if err != nil {
		return err
	}
	palettes, err := cfg.Palettes()
	if err != nil {
		return err
	}

	laser := layer.NewLaser(cfg.Width, cfg.Height)
	laser.SetGlow(cfg.Laser.Glow)
	laser.SetBeamIntensity(cfg.Laser.BeamIntensity)
	laser.SetEnabled(cfg.Laser.Enabled)
	haze := layer.NewHaze(cfg.Width, cfg.Height, cfg.Haze.Density)
	haze.SetEnabled(cfg.Haze.Enabled)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	p := &preview{
		screen:   screen,
		engine:   show.New(laser, haze, interps...),
		palettes: palettes,
		synth:    newSynth(seed, float64(fps), bpm),
	}
	p.loop(time.Second / time.Duration(fps))
	return nil
}

func (p *preview) loop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(p.screen, events, done)

	for {
		select {
		case ev := <-events:
			if !p.handle(ev) {
				return
			}
		case <-ticker.C:
			if !p.paused {
				p.tick()
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done is
// closed.
func pollEvents(s tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (p *preview) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); r {
		case 'q':
			return false
		case ' ':
			p.paused = !p.paused
		case 'g':
			l := p.engine.Laser()
			l.SetGlow(!l.Glow())
		case 'c':
			p.palettes.Next()
		case 's':
			p.strobe = !p.strobe
		case 'p':
			p.pulse = !p.pulse
		case '+':
			l := p.engine.Laser()
			l.SetBeamIntensity(l.BeamIntensity() + config.IntensityStep)
		case '-':
			l := p.engine.Laser()
			l.SetBeamIntensity(l.BeamIntensity() - config.IntensityStep)
		default:
			if k, ok := effectKeys[r]; ok {
				p.engine.Toggle(k)
			}
		}
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

func (p *preview) tick() {
	fr := p.synth.Next()
	if p.strobe {
		fr = fr.With(audio.Strobe, 1)
	}
	if p.pulse {
		fr = fr.With(audio.Pulse, 1)
	}
	p.palettes.Advance()
	out := p.engine.Tick(fr, p.palettes.Current())
	p.draw(out, fr)
}

// draw paints two buffer rows per terminal row with the upper half block:
// foreground is the top pixel, background the bottom one.
func (p *preview) draw(out show.Output, fr audio.Frame) {
	w, h := p.screen.Size()
	rows := h - 1
	if w <= 0 || rows <= 0 {
		return
	}
	px := downsample(out.Laser, out.Haze, w, rows*2)
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			top, bottom := px[(2*y)*w+x], px[(2*y+1)*w+x]
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			p.screen.SetContent(x, y, '▀', nil, st)
		}
	}

	st := p.engine.Laser().Stats()
	status := fmt.Sprintf(" bass %.2f energy %.2f | elements %d | palette %d | 1-7 effects g glow c palette s strobe p pulse q quit",
		fr.Bass(), fr.Energy(), st.Total(), p.palettes.Index())
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		p.screen.SetContent(x, rows, r, nil, style)
	}
	p.screen.Show()
}
