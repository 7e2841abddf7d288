package effects

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// RetriggerPolicy decides what a threshold crossing does while a burst is
// already running.
type RetriggerPolicy int

const (
	// RetriggerIgnore lets the running burst finish untouched.
	RetriggerIgnore RetriggerPolicy = iota
	// RetriggerRestart keeps the beams and resets the remaining duration,
	// which also restores full intensity.
	RetriggerRestart
)

func (p RetriggerPolicy) String() string {
	switch p {
	case RetriggerIgnore:
		return "ignore"
	case RetriggerRestart:
		return "restart"
	}
	return "unknown"
}

// BurstConfig configures a Burst.
type BurstConfig struct {
	// Threshold is the overall energy level whose upward crossing fires a burst.
	Threshold float64
	MaxBeams  int
	// Duration is the burst lifetime in ticks.
	Duration  int
	Retrigger RetriggerPolicy
	Origin    geom.Point
	Rand      *rand.Rand
}

func DefaultBurstConfig() BurstConfig {
	return BurstConfig{
		Threshold: 0.8,
		MaxBeams:  16,
		Duration:  20,
		Origin:    geom.Point{X: 0.5, Y: 0.5},
	}
}

// Burst fires a fan of random radial beams when overall energy crosses the
// threshold, then fades them out linearly over the burst duration.
type Burst struct {
	cfg        BurstConfig
	rng        *rand.Rand
	beams      []BurstBeam
	bursting   bool
	remaining  int
	lastEnergy float64
}

func NewBurst(cfg BurstConfig) (*Burst, error) {
	if err := checkUnit(KindBurst, "threshold", cfg.Threshold); err != nil {
		return nil, err
	}
	if err := checkCount(KindBurst, "max beams", cfg.MaxBeams); err != nil {
		return nil, err
	}
	if err := checkCount(KindBurst, "duration", cfg.Duration); err != nil {
		return nil, err
	}
	if cfg.Retrigger != RetriggerIgnore && cfg.Retrigger != RetriggerRestart {
		return nil, invalid(KindBurst, "unknown retrigger policy %d", int(cfg.Retrigger))
	}
	if err := checkPoint(KindBurst, "origin", cfg.Origin); err != nil {
		return nil, err
	}
	return &Burst{
		cfg:   cfg,
		rng:   orDefaultRand(cfg.Rand),
		beams: make([]BurstBeam, 0, cfg.MaxBeams),
	}, nil
}

func (b *Burst) Kind() Kind { return KindBurst }

// IsBursting reports whether a burst is running.
func (b *Burst) IsBursting() bool { return b.bursting }

// FramesRemaining returns the ticks left in the running burst.
func (b *Burst) FramesRemaining() int { return b.remaining }

// Beams returns a copy of the live burst beams; empty while idle.
func (b *Burst) Beams() []BurstBeam { return append([]BurstBeam(nil), b.beams...) }

func (b *Burst) Step(fr audio.Frame, p palette.Palette) {
	energy := fr.Energy()
	crossed := energy > b.cfg.Threshold && b.lastEnergy <= b.cfg.Threshold
	b.lastEnergy = energy

	switch {
	case crossed && !b.bursting:
		b.trigger(energy, p)
		return
	case crossed && b.cfg.Retrigger == RetriggerRestart:
		b.remaining = b.cfg.Duration
		b.fade()
		return
	case !b.bursting:
		return
	}

	b.remaining--
	if b.remaining <= 0 {
		b.remaining = 0
		b.bursting = false
		b.beams = b.beams[:0]
		return
	}
	b.fade()
	for i := range b.beams {
		b.beams[i].Length = math.Min(1, b.beams[i].Length+0.01)
	}
}

func (b *Burst) trigger(energy float64, p palette.Palette) {
	n := int(float64(b.cfg.MaxBeams) * energy)
	if n < 1 {
		n = 1
	}
	if n > b.cfg.MaxBeams {
		n = b.cfg.MaxBeams
	}
	b.beams = b.beams[:0]
	for i := 0; i < n; i++ {
		b.beams = append(b.beams, BurstBeam{
			Angle:     geom.NormalizeAngle((b.rng.Float64()*2 - 1) * math.Pi),
			Length:    0.3 + 0.5*b.rng.Float64(),
			Intensity: 1,
			Color:     p.At(b.rng.IntN(3)),
			Width:     1 + b.rng.IntN(4),
		})
	}
	b.bursting = true
	b.remaining = b.cfg.Duration
}

// fade scales beams from full intensity by the remaining fraction.
func (b *Burst) fade() {
	k := float64(b.remaining) / float64(b.cfg.Duration)
	for i := range b.beams {
		b.beams[i].Intensity = geom.Clamp01(k)
	}
}

func (b *Burst) Snapshot() Snapshot {
	return BurstSnapshot{
		Bursting:        b.bursting,
		FramesRemaining: b.remaining,
		Origin:          b.cfg.Origin,
		Beams:           b.Beams(),
	}
}
