package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/iburimskiy/laser-visualization/internal/audio"
)

func TestChaseTrailBounded(t *testing.T) {
	cfg := DefaultChaseConfig()
	cfg.TrailLength = 4
	c, err := NewChase(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRand(21)
	for tick := 0; tick < 300; tick++ {
		c.Step(randomFrame(r), testPalette)
		for _, ch := range c.Snapshot().(ChaseSnapshot).Chasers {
			if len(ch.Trail) > cfg.TrailLength {
				t.Fatalf("tick %d chaser %d trail length %d > %d", tick, ch.ID, len(ch.Trail), cfg.TrailLength)
			}
			if want := min(tick+1, cfg.TrailLength); len(ch.Trail) != want {
				t.Fatalf("tick %d chaser %d trail length %d, want %d", tick, ch.ID, len(ch.Trail), want)
			}
			for j := 1; j < len(ch.Trail); j++ {
				if ch.Trail[j].Intensity > ch.Trail[j-1].Intensity {
					t.Fatalf("tick %d chaser %d trail increases at slot %d: %v > %v",
						tick, ch.ID, j, ch.Trail[j].Intensity, ch.Trail[j-1].Intensity)
				}
			}
		}
	}
}

func TestChaseTrailHeadIsCurrentPosition(t *testing.T) {
	c, err := NewChase(DefaultChaseConfig())
	if err != nil {
		t.Fatal(err)
	}
	var prev []float64
	for tick := 0; tick < 3; tick++ {
		c.Step(audio.Frame{audio.Energy: 0.5}, testPalette)
		ch := c.Snapshot().(ChaseSnapshot).Chasers[0]
		if ch.Trail[0].Position != ch.Position {
			t.Fatalf("trail head %v != position %v", ch.Trail[0].Position, ch.Position)
		}
		if ch.Trail[0].Intensity != ch.Intensity {
			t.Errorf("trail head intensity %v != chaser intensity %v", ch.Trail[0].Intensity, ch.Intensity)
		}
		if prev != nil && ch.Trail[1].Position != prev[0] {
			t.Errorf("trail slot 1 = %v, want previous position %v", ch.Trail[1].Position, prev[0])
		}
		prev = []float64{ch.Position}
	}
}

func TestChaseTrailDecaysLinearly(t *testing.T) {
	cfg := DefaultChaseConfig()
	cfg.TrailLength = 4
	c, err := NewChase(cfg)
	if err != nil {
		t.Fatal(err)
	}
	f := audio.Frame{audio.Energy: 0.5}
	for i := 0; i < 6; i++ {
		c.Step(f, testPalette)
	}
	ch := c.Snapshot().(ChaseSnapshot).Chasers[1] // odd chaser: no bass boost
	want := []float64{0.7, 0.525, 0.35, 0.175}
	for j, tp := range ch.Trail {
		if math.Abs(tp.Intensity-want[j]) > 1e-9 {
			t.Errorf("slot %d intensity = %v, want %v", j, tp.Intensity, want[j])
		}
	}
}

func TestChasePositionsEvenlySpaced(t *testing.T) {
	cfg := DefaultChaseConfig()
	cfg.Count = 4
	c, err := NewChase(cfg)
	if err != nil {
		t.Fatal(err)
	}
	c.Step(audio.Frame{}, testPalette)
	chasers := c.Snapshot().(ChaseSnapshot).Chasers
	for i, ch := range chasers {
		want := math.Mod(c.Phase()+float64(i)/4, 1)
		if math.Abs(ch.Position-want) > 1e-12 {
			t.Errorf("chaser %d position = %v, want %v", i, ch.Position, want)
		}
	}
}

func TestChaseBeatBoost(t *testing.T) {
	cfg := DefaultChaseConfig()
	steady, _ := NewChase(cfg)
	spiky, _ := NewChase(cfg)

	for i := 0; i < 100; i++ {
		steady.Step(audio.Frame{audio.Treble: 0.2}, testPalette)
		spiky.Step(audio.Frame{audio.Treble: 0.2}, testPalette)
	}
	if steady.BeatBoost() > 1e-3 {
		t.Errorf("steady treble still boosting: %v", steady.BeatBoost())
	}
	before := spiky.Phase()
	spiky.Step(audio.Frame{audio.Treble: 0.9}, testPalette)
	if spiky.BeatBoost() < 2 {
		t.Errorf("treble spike boost = %v, want >= 2", spiky.BeatBoost())
	}
	advance := math.Mod(spiky.Phase()-before+1, 1)
	if advance < 2*cfg.Speed {
		t.Errorf("phase advanced %v on a spike, want at least %v", advance, 2*cfg.Speed)
	}
}

func TestChaseBassBoostEvenOnly(t *testing.T) {
	c, _ := NewChase(DefaultChaseConfig())
	c.Step(audio.Frame{audio.Bass: 1}, testPalette)
	chasers := c.Snapshot().(ChaseSnapshot).Chasers
	if math.Abs(chasers[0].Intensity-0.7) > 1e-9 || math.Abs(chasers[1].Intensity-0.4) > 1e-9 {
		t.Errorf("intensities = %v, %v; want 0.7, 0.4", chasers[0].Intensity, chasers[1].Intensity)
	}
}

func TestChaseConfigErrors(t *testing.T) {
	mutate := []func(*ChaseConfig){
		func(c *ChaseConfig) { c.Count = 0 },
		func(c *ChaseConfig) { c.Speed = 0 },
		func(c *ChaseConfig) { c.TrailLength = 0 },
		func(c *ChaseConfig) { c.Radius = 0.6 },
		func(c *ChaseConfig) { c.BeatGain = -1 },
		func(c *ChaseConfig) { c.BaselineRate = 0 },
	}
	for i, m := range mutate {
		cfg := DefaultChaseConfig()
		m(&cfg)
		if _, err := NewChase(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: error = %v, want ErrInvalidConfig", i, err)
		}
	}
}
