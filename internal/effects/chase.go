package effects

import (
	"math"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// ChaseConfig configures a Chase.
type ChaseConfig struct {
	Count       int
	Speed       float64
	TrailLength int
	Centre      geom.Point
	Radius      float64
	// BeatGain scales how much a treble spike above its running baseline
	// speeds the chase up.
	BeatGain float64
	// BaselineRate is the weight of the newest treble sample in the baseline
	// average.
	BaselineRate float64
}

func DefaultChaseConfig() ChaseConfig {
	return ChaseConfig{
		Count:        6,
		Speed:        0.01,
		TrailLength:  3,
		Centre:       geom.Point{X: 0.5, Y: 0.5},
		Radius:       0.3,
		BeatGain:     4,
		BaselineRate: 0.1,
	}
}

// Chase runs evenly spaced dots around a loop, each dragging a short trail.
type Chase struct {
	cfg      ChaseConfig
	chasers  []Chaser
	peaks    [][]float64 // intensity each trail slot was pushed with
	phase    float64
	baseline float64
	boost    float64
}

func NewChase(cfg ChaseConfig) (*Chase, error) {
	if err := checkCount(KindChase, "count", cfg.Count); err != nil {
		return nil, err
	}
	if err := checkPositive(KindChase, "speed", cfg.Speed); err != nil {
		return nil, err
	}
	if err := checkCount(KindChase, "trail length", cfg.TrailLength); err != nil {
		return nil, err
	}
	if err := checkPoint(KindChase, "centre", cfg.Centre); err != nil {
		return nil, err
	}
	if !(cfg.Radius > 0 && cfg.Radius <= 0.5) {
		return nil, invalid(KindChase, "radius must be in (0,0.5], got %v", cfg.Radius)
	}
	if cfg.BeatGain < 0 {
		return nil, invalid(KindChase, "beat gain must be >= 0, got %v", cfg.BeatGain)
	}
	if !(cfg.BaselineRate > 0 && cfg.BaselineRate <= 1) {
		return nil, invalid(KindChase, "baseline rate must be in (0,1], got %v", cfg.BaselineRate)
	}

	c := &Chase{
		cfg:     cfg,
		chasers: make([]Chaser, cfg.Count),
		peaks:   make([][]float64, cfg.Count),
	}
	for i := range c.chasers {
		c.chasers[i] = Chaser{
			ID:       i,
			Position: float64(i) / float64(cfg.Count),
			Trail:    make([]TrailPoint, 0, cfg.TrailLength),
		}
		c.peaks[i] = make([]float64, 0, cfg.TrailLength)
	}
	return c, nil
}

func (c *Chase) Kind() Kind { return KindChase }

// Phase returns the loop phase in [0,1).
func (c *Chase) Phase() float64 { return c.phase }

// BeatBoost returns the speed boost applied on the last tick.
func (c *Chase) BeatBoost() float64 { return c.boost }

func (c *Chase) Step(fr audio.Frame, p palette.Palette) {
	treble, bass, energy := fr.Treble(), fr.Bass(), fr.Energy()

	c.boost = c.cfg.BeatGain * math.Max(0, treble-c.baseline)
	c.baseline += c.cfg.BaselineRate * (treble - c.baseline)
	c.phase = geom.Wrap01(c.phase + c.cfg.Speed*(1+c.boost))

	n := float64(len(c.chasers))
	for i := range c.chasers {
		ch := &c.chasers[i]
		ch.Position = geom.Wrap01(c.phase + float64(i)/n)
		level := 0.4 + 0.6*energy
		if i%2 == 0 {
			level += 0.3 * bass
		}
		ch.Intensity = geom.Clamp01(level)
		ch.Color = p.At(i)
		c.pushTrail(i)
	}
}

// pushTrail records the chaser's current position at the head of its trail
// and re-derives slot intensities: linear decay to zero across the trail,
// never brighter than the slot ahead.
func (c *Chase) pushTrail(i int) {
	ch := &c.chasers[i]
	capacity := c.cfg.TrailLength

	if len(ch.Trail) < capacity {
		ch.Trail = ch.Trail[:len(ch.Trail)+1]
		c.peaks[i] = c.peaks[i][:len(c.peaks[i])+1]
	}
	copy(ch.Trail[1:], ch.Trail[:len(ch.Trail)-1])
	copy(c.peaks[i][1:], c.peaks[i][:len(c.peaks[i])-1])
	ch.Trail[0] = TrailPoint{Position: ch.Position}
	c.peaks[i][0] = ch.Intensity

	prev := 1.0
	for j := range ch.Trail {
		v := c.peaks[i][j] * (1 - float64(j)/float64(capacity))
		if v > prev {
			v = prev
		}
		ch.Trail[j].Intensity = geom.Clamp01(v)
		prev = ch.Trail[j].Intensity
	}
}

func (c *Chase) Snapshot() Snapshot {
	out := make([]Chaser, len(c.chasers))
	for i, ch := range c.chasers {
		out[i] = ch
		out[i].Trail = append([]TrailPoint(nil), ch.Trail...)
	}
	return ChaseSnapshot{Centre: c.cfg.Centre, Radius: c.cfg.Radius, Chasers: out}
}
