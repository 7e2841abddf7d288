package effects

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// FanConfig configures a Fan.
type FanConfig struct {
	Count int
	// FanAngle is the total spread in degrees.
	FanAngle float64
	// Origin is where every beam starts.
	Origin geom.Point
	// Direction is the centre of the fan in degrees, 0 pointing up.
	Direction float64
	// Length is the beam length at full energy, as a fraction of the canvas.
	Length float64
	// Width is the beam thickness in pixels.
	Width int
	// Jitter is the maximum angular wobble in radians at full treble.
	Jitter float64
	Rand   *rand.Rand
}

// DefaultFanConfig mirrors the bottom-centre concert rig.
func DefaultFanConfig() FanConfig {
	return FanConfig{
		Count:    8,
		FanAngle: 120,
		Origin:   geom.Point{X: 0.5, Y: 0.9},
		Length:   0.8,
		Width:    3,
		Jitter:   0.1,
	}
}

// Fan spreads beams evenly across a fixed angle from one origin.
type Fan struct {
	cfg        FanConfig
	beams      []Beam
	moveSpeed  []float64
	movePhase  []float64
	colorPhase float64
}

// NewFan validates cfg and lays out the beams.
func NewFan(cfg FanConfig) (*Fan, error) {
	if err := checkCount(KindFan, "count", cfg.Count); err != nil {
		return nil, err
	}
	if cfg.FanAngle < 0 || math.IsNaN(cfg.FanAngle) {
		return nil, invalid(KindFan, "fan angle must be >= 0, got %v", cfg.FanAngle)
	}
	if err := checkPoint(KindFan, "origin", cfg.Origin); err != nil {
		return nil, err
	}
	if err := checkPositive(KindFan, "length", cfg.Length); err != nil {
		return nil, err
	}
	if err := checkUnit(KindFan, "length", cfg.Length); err != nil {
		return nil, err
	}
	if err := checkWidth(KindFan, cfg.Width); err != nil {
		return nil, err
	}
	if cfg.Jitter < 0 {
		return nil, invalid(KindFan, "jitter must be >= 0, got %v", cfg.Jitter)
	}
	rng := orDefaultRand(cfg.Rand)

	f := &Fan{
		cfg:       cfg,
		beams:     make([]Beam, cfg.Count),
		moveSpeed: make([]float64, cfg.Count),
		movePhase: make([]float64, cfg.Count),
	}
	dir := geom.Radians(cfg.Direction)
	spread := geom.Radians(cfg.FanAngle)
	for i := range f.beams {
		base := dir
		if cfg.Count > 1 {
			base = dir + (float64(i)-float64(cfg.Count-1)/2)*(spread/float64(cfg.Count-1))
		}
		base = geom.NormalizeAngle(base)
		f.beams[i] = Beam{
			ID:           i,
			Origin:       cfg.Origin,
			BaseAngle:    base,
			CurrentAngle: base,
			Length:       cfg.Length,
			Width:        cfg.Width,
		}
		f.movePhase[i] = rng.Float64() * 2 * math.Pi
		f.moveSpeed[i] = 0.02 + 0.03*rng.Float64()
	}
	return f, nil
}

func (f *Fan) Kind() Kind { return KindFan }

// Step implements Interpreter.
func (f *Fan) Step(fr audio.Frame, p palette.Palette) {
	bass, treble := fr.Bass(), fr.Treble()
	energy, sustained := fr.Energy(), fr.SustainedBass()

	f.colorPhase += 0.02
	intensity := geom.Clamp01(0.6*bass + 0.4*sustained)
	for i := range f.beams {
		b := &f.beams[i]
		f.movePhase[i] += f.moveSpeed[i] * (1 + 2*energy)
		b.CurrentAngle = geom.NormalizeAngle(b.BaseAngle + f.cfg.Jitter*treble*math.Sin(f.movePhase[i]))
		b.Intensity = intensity
		b.Color = p.At(i + int(f.colorPhase))
		b.Length = f.cfg.Length * (0.6 + 0.4*energy)
		b.Enabled = intensity > 0.02
	}
}

// Snapshot implements Interpreter.
func (f *Fan) Snapshot() Snapshot {
	return FanSnapshot{Beams: append([]Beam(nil), f.beams...)}
}

// Endpoints returns start and end points of every enabled beam, clamped to
// the canvas.
func (f *Fan) Endpoints() [][2]geom.Point {
	var out [][2]geom.Point
	for _, b := range f.beams {
		if !b.Enabled {
			continue
		}
		s, e := b.Endpoints()
		out = append(out, [2]geom.Point{s, e})
	}
	return out
}

// ActiveCount returns the number of enabled beams.
func (f *Fan) ActiveCount() int {
	n := 0
	for _, b := range f.beams {
		if b.Enabled {
			n++
		}
	}
	return n
}
