package effects

import (
	"math"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// SpiralConfig configures a Spiral.
type SpiralConfig struct {
	Count  int
	Points int
	Speed  float64
	// Tightness is the number of turns an arm makes from centre to rim.
	Tightness float64
	MaxRadius float64
	Centre    geom.Point
}

func DefaultSpiralConfig() SpiralConfig {
	return SpiralConfig{
		Count:     3,
		Points:    20,
		Speed:     0.04,
		Tightness: 2,
		MaxRadius: 0.4,
		Centre:    geom.Point{X: 0.5, Y: 0.5},
	}
}

// Spiral draws Archimedean arms (radius proportional to angle) that rotate
// in alternating directions.
type Spiral struct {
	cfg   SpiralConfig
	arms  []SpiralArm
	phase float64
}

func NewSpiral(cfg SpiralConfig) (*Spiral, error) {
	if err := checkCount(KindSpiral, "count", cfg.Count); err != nil {
		return nil, err
	}
	if err := checkCount(KindSpiral, "points", cfg.Points); err != nil {
		return nil, err
	}
	if err := checkPositive(KindSpiral, "speed", cfg.Speed); err != nil {
		return nil, err
	}
	if err := checkPositive(KindSpiral, "tightness", cfg.Tightness); err != nil {
		return nil, err
	}
	if !(cfg.MaxRadius > 0 && cfg.MaxRadius <= 0.5) {
		return nil, invalid(KindSpiral, "max radius must be in (0,0.5], got %v", cfg.MaxRadius)
	}
	if err := checkPoint(KindSpiral, "centre", cfg.Centre); err != nil {
		return nil, err
	}

	s := &Spiral{cfg: cfg, arms: make([]SpiralArm, cfg.Count)}
	for i := range s.arms {
		dir := 1
		if i%2 == 1 {
			dir = -1
		}
		s.arms[i] = SpiralArm{ID: i, Direction: dir, Points: make([]SpiralPoint, cfg.Points)}
	}
	return s, nil
}

func (s *Spiral) Kind() Kind { return KindSpiral }

// Phase returns the accumulated rotation phase.
func (s *Spiral) Phase() float64 { return s.phase }

func (s *Spiral) Step(fr audio.Frame, p palette.Palette) {
	treble := fr.Treble()
	s.phase += s.cfg.Speed * (1 + treble)

	n := float64(len(s.arms))
	for i := range s.arms {
		arm := &s.arms[i]
		offset := float64(i) * 2 * math.Pi / n
		base := float64(arm.Direction)*s.phase + offset
		for j := range arm.Points {
			t := float64(j) / float64(len(arm.Points))
			theta := base + t*s.cfg.Tightness*2*math.Pi
			pt := geom.Polar(s.cfg.Centre, t*s.cfg.MaxRadius, theta).Clamped()
			arm.Points[j] = SpiralPoint{
				X:         pt.X,
				Y:         pt.Y,
				Intensity: geom.Clamp01((1 - t) * (0.3 + 0.7*treble)),
			}
		}
		arm.Color = p.At(i)
	}
}

func (s *Spiral) Snapshot() Snapshot {
	out := make([]SpiralArm, len(s.arms))
	for i, arm := range s.arms {
		out[i] = arm
		out[i].Points = append([]SpiralPoint(nil), arm.Points...)
	}
	return SpiralSnapshot{Arms: out}
}
