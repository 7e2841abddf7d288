package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/iburimskiy/laser-visualization/internal/audio"
)

func TestSpiralArmDirectionsAlternate(t *testing.T) {
	cfg := DefaultSpiralConfig()
	cfg.Count = 4
	s, err := NewSpiral(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, -1, 1, -1}
	arms := s.Snapshot().(SpiralSnapshot).Arms
	for i, arm := range arms {
		if arm.Direction != want[i] {
			t.Errorf("arm %d direction = %d, want %d", i, arm.Direction, want[i])
		}
	}
}

func TestSpiralPointsFollowArchimedeanCurve(t *testing.T) {
	cfg := DefaultSpiralConfig()
	s, err := NewSpiral(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Step(audio.Frame{audio.Treble: 0.5}, testPalette)
	phase := s.Phase()

	for i, arm := range s.Snapshot().(SpiralSnapshot).Arms {
		if len(arm.Points) != cfg.Points {
			t.Fatalf("arm %d has %d points", i, len(arm.Points))
		}
		for j, pt := range arm.Points {
			tt := float64(j) / float64(cfg.Points)
			theta := float64(arm.Direction)*phase + float64(i)*2*math.Pi/float64(cfg.Count) + tt*cfg.Tightness*2*math.Pi
			r := tt * cfg.MaxRadius
			wx := cfg.Centre.X + r*math.Cos(theta)
			wy := cfg.Centre.Y + r*math.Sin(theta)
			if math.Abs(pt.X-wx) > eps || math.Abs(pt.Y-wy) > eps {
				t.Errorf("arm %d point %d = (%v,%v), want (%v,%v)", i, j, pt.X, pt.Y, wx, wy)
			}
			wantI := (1 - tt) * (0.3 + 0.7*0.5)
			if math.Abs(pt.Intensity-wantI) > eps {
				t.Errorf("arm %d point %d intensity = %v, want %v", i, j, pt.Intensity, wantI)
			}
		}
	}
}

func TestSpiralIntensityFadesOutwards(t *testing.T) {
	s, err := NewSpiral(DefaultSpiralConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Step(audio.Frame{audio.Treble: 1}, testPalette)
	for _, arm := range s.Snapshot().(SpiralSnapshot).Arms {
		if arm.Points[0].Intensity != 1 {
			t.Errorf("centre intensity = %v, want 1", arm.Points[0].Intensity)
		}
		for j := 1; j < len(arm.Points); j++ {
			if arm.Points[j].Intensity >= arm.Points[j-1].Intensity {
				t.Fatalf("intensity not decreasing at point %d", j)
			}
		}
	}
}

func TestSpiralRotationSpeedScalesWithTreble(t *testing.T) {
	quiet, _ := NewSpiral(DefaultSpiralConfig())
	loud, _ := NewSpiral(DefaultSpiralConfig())
	for i := 0; i < 10; i++ {
		quiet.Step(nil, testPalette)
		loud.Step(audio.Frame{audio.Treble: 1}, testPalette)
	}
	if math.Abs(loud.Phase()-2*quiet.Phase()) > eps {
		t.Errorf("loud phase = %v, quiet phase = %v", loud.Phase(), quiet.Phase())
	}
}

func TestSpiralColorPerArm(t *testing.T) {
	s, _ := NewSpiral(DefaultSpiralConfig())
	s.Step(nil, testPalette)
	for i, arm := range s.Snapshot().(SpiralSnapshot).Arms {
		if arm.Color != testPalette.At(i) {
			t.Errorf("arm %d color = %v, want %v", i, arm.Color, testPalette.At(i))
		}
	}
}

func TestSpiralConfigErrors(t *testing.T) {
	mutate := []func(*SpiralConfig){
		func(c *SpiralConfig) { c.Count = 0 },
		func(c *SpiralConfig) { c.Points = 0 },
		func(c *SpiralConfig) { c.Speed = 0 },
		func(c *SpiralConfig) { c.Tightness = -1 },
		func(c *SpiralConfig) { c.MaxRadius = 0.6 },
		func(c *SpiralConfig) { c.MaxRadius = math.NaN() },
	}
	for i, m := range mutate {
		cfg := DefaultSpiralConfig()
		m(&cfg)
		if _, err := NewSpiral(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: error = %v, want ErrInvalidConfig", i, err)
		}
	}
}
