package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// ErrInvalid marks a show file that cannot be turned into a running show.
var ErrInvalid = errors.New("config: invalid show")

// Point is a canvas position in YAML.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) geom() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

func point(p geom.Point) Point { return Point{X: p.X, Y: p.Y} }

// Show is the root of a show file. Load starts from Default, so a file only
// needs the keys it changes.
type Show struct {
	Palette      string   `yaml:"palette"`
	PaletteDrift float64  `yaml:"palette_drift"` // hue degrees per tick
	Width        int      `yaml:"width"`
	Height       int      `yaml:"height"`
	Analyzer     Analyzer `yaml:"analyzer"`
	Laser        Laser    `yaml:"laser"`
	Haze         Haze     `yaml:"haze"`
	Fan          Fan      `yaml:"fan"`
	Scan         Scan     `yaml:"scan"`
	Matrix       Matrix   `yaml:"matrix"`
	Chase        Chase    `yaml:"chase"`
	Burst        Burst    `yaml:"burst"`
	Spiral       Spiral   `yaml:"spiral"`
	Tunnel       Tunnel   `yaml:"tunnel"`
}

type Analyzer struct {
	WindowSize    int     `yaml:"window_size"`
	Smoothing     float64 `yaml:"smoothing"`
	SustainWindow int     `yaml:"sustain_window"`
}

type Laser struct {
	Enabled       bool    `yaml:"enabled"`
	Glow          bool    `yaml:"glow"`
	BeamIntensity float64 `yaml:"beam_intensity"`
}

type Haze struct {
	Enabled bool    `yaml:"enabled"`
	Density float64 `yaml:"density"`
}

type Fan struct {
	Enabled   bool    `yaml:"enabled"`
	Count     int     `yaml:"count"`
	Angle     float64 `yaml:"angle"`
	Direction float64 `yaml:"direction"`
	Origin    Point   `yaml:"origin"`
	Length    float64 `yaml:"length"`
	Width     int     `yaml:"width"`
	Jitter    float64 `yaml:"jitter"`
}

type Scan struct {
	Enabled   bool    `yaml:"enabled"`
	Count     int     `yaml:"count"`
	Speed     float64 `yaml:"speed"`
	Range     float64 `yaml:"range"`
	Direction float64 `yaml:"direction"`
	Origin    Point   `yaml:"origin"`
	Length    float64 `yaml:"length"`
	Width     int     `yaml:"width"`
}

type Matrix struct {
	Enabled    bool    `yaml:"enabled"`
	Cols       int     `yaml:"cols"`
	Rows       int     `yaml:"rows"`
	PulseSpeed float64 `yaml:"pulse_speed"`
	WaveNumber float64 `yaml:"wave_number"`
	Margin     float64 `yaml:"margin"`
}

type Chase struct {
	Enabled      bool    `yaml:"enabled"`
	Count        int     `yaml:"count"`
	Speed        float64 `yaml:"speed"`
	TrailLength  int     `yaml:"trail_length"`
	Centre       Point   `yaml:"centre"`
	Radius       float64 `yaml:"radius"`
	BeatGain     float64 `yaml:"beat_gain"`
	BaselineRate float64 `yaml:"baseline_rate"`
}

type Burst struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
	MaxBeams  int     `yaml:"max_beams"`
	Duration  int     `yaml:"duration"`
	// Retrigger is "ignore" or "restart".
	Retrigger string `yaml:"retrigger"`
	Origin    Point  `yaml:"origin"`
}

type Spiral struct {
	Enabled   bool    `yaml:"enabled"`
	Count     int     `yaml:"count"`
	Points    int     `yaml:"points"`
	Speed     float64 `yaml:"speed"`
	Tightness float64 `yaml:"tightness"`
	MaxRadius float64 `yaml:"max_radius"`
	Centre    Point   `yaml:"centre"`
}

type Tunnel struct {
	Enabled bool    `yaml:"enabled"`
	Rings   int     `yaml:"rings"`
	Speed   float64 `yaml:"speed"`
	Spacing float64 `yaml:"spacing"`
	Centre  Point   `yaml:"centre"`
}

// Default returns the stock show: every effect on, standard palettes.
func Default() Show {
	fan := effects.DefaultFanConfig()
	scan := effects.DefaultScanConfig()
	matrix := effects.DefaultMatrixConfig()
	chase := effects.DefaultChaseConfig()
	burst := effects.DefaultBurstConfig()
	spiral := effects.DefaultSpiralConfig()
	tunnel := effects.DefaultTunnelConfig()

	return Show{
		Palette: PaletteSet,
		Width:   WindowWidth / RenderScale,
		Height:  WindowHeight / RenderScale,
		Analyzer: Analyzer{
			WindowSize:    1024,
			Smoothing:     SmoothingFactor,
			SustainWindow: SustainTicks,
		},
		Laser: Laser{Enabled: true, Glow: true, BeamIntensity: 0.8},
		Haze:  Haze{Enabled: true, Density: 0.3},
		Fan: Fan{
			Enabled: true, Count: fan.Count, Angle: fan.FanAngle, Direction: fan.Direction,
			Origin: point(fan.Origin), Length: fan.Length, Width: fan.Width, Jitter: fan.Jitter,
		},
		Scan: Scan{
			Enabled: true, Count: scan.Count, Speed: scan.Speed, Range: scan.Range, Direction: scan.Direction,
			Origin: point(scan.Origin), Length: scan.Length, Width: scan.Width,
		},
		Matrix: Matrix{
			Enabled: true, Cols: matrix.Cols, Rows: matrix.Rows, PulseSpeed: matrix.PulseSpeed,
			WaveNumber: matrix.WaveNumber, Margin: matrix.Margin,
		},
		Chase: Chase{
			Enabled: true, Count: chase.Count, Speed: chase.Speed, TrailLength: chase.TrailLength,
			Centre: point(chase.Centre), Radius: chase.Radius, BeatGain: chase.BeatGain, BaselineRate: chase.BaselineRate,
		},
		Burst: Burst{
			Enabled: true, Threshold: burst.Threshold, MaxBeams: burst.MaxBeams, Duration: burst.Duration,
			Retrigger: burst.Retrigger.String(), Origin: point(burst.Origin),
		},
		Spiral: Spiral{
			Enabled: true, Count: spiral.Count, Points: spiral.Points, Speed: spiral.Speed,
			Tightness: spiral.Tightness, MaxRadius: spiral.MaxRadius, Centre: point(spiral.Centre),
		},
		Tunnel: Tunnel{
			Enabled: true, Rings: tunnel.Rings, Speed: tunnel.Speed, Spacing: tunnel.Spacing,
			Centre: point(tunnel.Centre),
		},
	}
}

// Load reads a YAML show file over the defaults and validates it. Unknown
// keys are rejected.
func Load(path string) (Show, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Show{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse is Load without the file.
func Parse(data []byte) (Show, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Show{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return Show{}, err
	}
	return s, nil
}

// Validate checks every section and reports all problems at once.
func (s Show) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if _, err := palette.Set(s.Palette); err != nil {
		bad("%v", err)
	}
	if s.PaletteDrift < 0 || s.PaletteDrift >= 360 {
		bad("palette_drift must be in [0,360), got %v", s.PaletteDrift)
	}
	if s.Width < 1 || s.Height < 1 {
		bad("canvas must be at least 1x1, got %dx%d", s.Width, s.Height)
	}
	if s.Analyzer.Smoothing < 0 || s.Analyzer.Smoothing >= 1 {
		bad("analyzer smoothing must be in [0,1), got %v", s.Analyzer.Smoothing)
	}
	if s.Analyzer.WindowSize < 0 || s.Analyzer.SustainWindow < 0 {
		bad("analyzer windows must not be negative")
	}
	if s.Laser.BeamIntensity < 0 || s.Laser.BeamIntensity > 1 {
		bad("laser beam_intensity must be in [0,1], got %v", s.Laser.BeamIntensity)
	}
	if s.Haze.Density < 0 || s.Haze.Density > 1 {
		bad("haze density must be in [0,1], got %v", s.Haze.Density)
	}
	if _, err := s.build(0); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Interpreters builds the enabled interpreters in draw order. seed feeds the
// random generators of the fan, burst and tunnel effects.
func (s Show) Interpreters(seed uint64) ([]effects.Interpreter, error) {
	return s.build(seed)
}

// AnalyzerConfig returns the analyzer settings for the given sample rate.
func (s Show) AnalyzerConfig(sampleRate int) audio.AnalyzerConfig {
	return audio.AnalyzerConfig{
		SampleRate:    sampleRate,
		WindowSize:    s.Analyzer.WindowSize,
		Smoothing:     s.Analyzer.Smoothing,
		SustainWindow: s.Analyzer.SustainWindow,
	}
}

// Palettes returns a cycler over the configured palette rotation with the
// configured hue drift.
func (s Show) Palettes() (*palette.Cycler, error) {
	set, err := palette.Set(s.Palette)
	if err != nil {
		return nil, err
	}
	c := palette.NewCycler(set)
	c.SetDrift(s.PaletteDrift)
	return c, nil
}

func (s Show) build(seed uint64) ([]effects.Interpreter, error) {
	var (
		out  []effects.Interpreter
		errs []error
	)
	add := func(name string, in effects.Interpreter, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, name, err))
			return
		}
		out = append(out, in)
	}

	if s.Fan.Enabled {
		f, err := effects.NewFan(effects.FanConfig{
			Count: s.Fan.Count, FanAngle: s.Fan.Angle, Direction: s.Fan.Direction,
			Origin: s.Fan.Origin.geom(), Length: s.Fan.Length, Width: s.Fan.Width,
			Jitter: s.Fan.Jitter, Rand: effects.NewRand(seed),
		})
		add("fan", f, err)
	}
	if s.Scan.Enabled {
		sc, err := effects.NewScan(effects.ScanConfig{
			Count: s.Scan.Count, Speed: s.Scan.Speed, Range: s.Scan.Range, Direction: s.Scan.Direction,
			Origin: s.Scan.Origin.geom(), Length: s.Scan.Length, Width: s.Scan.Width,
		})
		add("scan", sc, err)
	}
	if s.Matrix.Enabled {
		m, err := effects.NewMatrix(effects.MatrixConfig{
			Cols: s.Matrix.Cols, Rows: s.Matrix.Rows, PulseSpeed: s.Matrix.PulseSpeed,
			WaveNumber: s.Matrix.WaveNumber, Margin: s.Matrix.Margin,
		})
		add("matrix", m, err)
	}
	if s.Chase.Enabled {
		c, err := effects.NewChase(effects.ChaseConfig{
			Count: s.Chase.Count, Speed: s.Chase.Speed, TrailLength: s.Chase.TrailLength,
			Centre: s.Chase.Centre.geom(), Radius: s.Chase.Radius,
			BeatGain: s.Chase.BeatGain, BaselineRate: s.Chase.BaselineRate,
		})
		add("chase", c, err)
	}
	if s.Burst.Enabled {
		policy, err := parseRetrigger(s.Burst.Retrigger)
		if err != nil {
			errs = append(errs, err)
		} else {
			b, err := effects.NewBurst(effects.BurstConfig{
				Threshold: s.Burst.Threshold, MaxBeams: s.Burst.MaxBeams, Duration: s.Burst.Duration,
				Retrigger: policy, Origin: s.Burst.Origin.geom(), Rand: effects.NewRand(seed + 1),
			})
			add("burst", b, err)
		}
	}
	if s.Spiral.Enabled {
		sp, err := effects.NewSpiral(effects.SpiralConfig{
			Count: s.Spiral.Count, Points: s.Spiral.Points, Speed: s.Spiral.Speed,
			Tightness: s.Spiral.Tightness, MaxRadius: s.Spiral.MaxRadius, Centre: s.Spiral.Centre.geom(),
		})
		add("spiral", sp, err)
	}
	if s.Tunnel.Enabled {
		tn, err := effects.NewTunnel(effects.TunnelConfig{
			Rings: s.Tunnel.Rings, Speed: s.Tunnel.Speed, Spacing: s.Tunnel.Spacing,
			Centre: s.Tunnel.Centre.geom(), Rand: effects.NewRand(seed + 2),
		})
		add("tunnel", tn, err)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func parseRetrigger(s string) (effects.RetriggerPolicy, error) {
	switch s {
	case "", effects.RetriggerIgnore.String():
		return effects.RetriggerIgnore, nil
	case effects.RetriggerRestart.String():
		return effects.RetriggerRestart, nil
	}
	return 0, fmt.Errorf("%w: burst: unknown retrigger policy %q", ErrInvalid, s)
}
