package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/iburimskiy/laser-visualization/internal/audio"
)

func TestScanReflectsAtLimits(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Speed = 0.07
	s, err := NewScan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if s.Direction() != 1 {
		t.Fatalf("initial direction = %d, want +1", s.Direction())
	}

	r := NewRand(4)
	flips := 0
	for tick := 0; tick < 2000; tick++ {
		prevDir := s.Direction()
		s.Step(audio.Frame{audio.Treble: r.Float64(), audio.Energy: 0.5}, testPalette)
		ph := s.Phase()
		if ph < -1 || ph > 1 {
			t.Fatalf("tick %d: phase %v outside [-1,1]", tick, ph)
		}
		reached := math.Abs(ph) == 1
		flipped := s.Direction() != prevDir
		if reached != flipped {
			t.Fatalf("tick %d: phase %v reached limit=%v but flipped=%v", tick, ph, reached, flipped)
		}
		if flipped {
			flips++
			if float64(s.Direction()) != -ph {
				t.Fatalf("tick %d: after reaching %v direction is %d", tick, ph, s.Direction())
			}
		}
	}
	if flips < 10 {
		t.Errorf("only %d direction flips in 2000 ticks", flips)
	}
}

func TestScanExactLimit(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Speed = 0.5
	s, err := NewScan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Step(nil, testPalette) // 0.5
	if s.Direction() != 1 {
		t.Fatal("flipped before reaching the limit")
	}
	s.Step(nil, testPalette) // 1.0 exactly
	if s.Phase() != 1 || s.Direction() != -1 {
		t.Errorf("phase=%v direction=%d, want 1 and -1", s.Phase(), s.Direction())
	}
	s.Step(nil, testPalette)
	if s.Phase() != 0.5 {
		t.Errorf("phase after reflecting = %v, want 0.5", s.Phase())
	}
}

func TestScanTrebleSpeedsUp(t *testing.T) {
	slow, _ := NewScan(DefaultScanConfig())
	fast, _ := NewScan(DefaultScanConfig())
	slow.Step(audio.Frame{}, testPalette)
	fast.Step(audio.Frame{audio.Treble: 1}, testPalette)
	if math.Abs(fast.Phase()-2*slow.Phase()) > eps {
		t.Errorf("full treble phase = %v, want twice %v", fast.Phase(), slow.Phase())
	}
}

func TestScanBeamsFollowPhase(t *testing.T) {
	cfg := DefaultScanConfig()
	cfg.Count = 3
	cfg.Range = 90
	s, err := NewScan(cfg)
	if err != nil {
		t.Fatal(err)
	}
	s.Step(audio.Frame{audio.Energy: 1}, testPalette)
	beams := s.Snapshot().(ScanSnapshot).Beams
	half := math.Pi / 4
	for i, b := range beams {
		want := b.BaseAngle + s.Phase()*half
		if math.Abs(b.CurrentAngle-want) > eps {
			t.Errorf("beam %d angle = %v, want %v", i, b.CurrentAngle, want)
		}
		if b.Color != testPalette.At(i) {
			t.Errorf("beam %d color = %+v, want palette[%d]", i, b.Color, i)
		}
	}
	gap := beams[1].BaseAngle - beams[0].BaseAngle
	if math.Abs(gap-math.Pi/6) > eps {
		t.Errorf("offset gap = %v, want range/count", gap)
	}
}

func TestScanIntensityTracksEnergy(t *testing.T) {
	s, err := NewScan(DefaultScanConfig())
	if err != nil {
		t.Fatal(err)
	}
	s.Step(audio.Frame{audio.Energy: 0}, testPalette)
	for _, b := range s.Snapshot().(ScanSnapshot).Beams {
		if b.Intensity != 0 || b.Enabled {
			t.Errorf("silent beam %d intensity=%v enabled=%v", b.ID, b.Intensity, b.Enabled)
		}
	}
	s.Step(audio.Frame{audio.Energy: 1}, testPalette)
	for _, b := range s.Snapshot().(ScanSnapshot).Beams {
		if b.Intensity < 0.5 || b.Intensity > 1 || !b.Enabled {
			t.Errorf("loud beam %d intensity=%v enabled=%v", b.ID, b.Intensity, b.Enabled)
		}
	}
}

func TestScanConfigErrors(t *testing.T) {
	mutate := []func(*ScanConfig){
		func(c *ScanConfig) { c.Count = 0 },
		func(c *ScanConfig) { c.Speed = -1 },
		func(c *ScanConfig) { c.Range = 0 },
		func(c *ScanConfig) { c.Width = 0 },
		func(c *ScanConfig) { c.Width = 100000 },
		func(c *ScanConfig) { c.Length = 2 },
	}
	for i, m := range mutate {
		cfg := DefaultScanConfig()
		m(&cfg)
		if _, err := NewScan(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("case %d: error = %v, want ErrInvalidConfig", i, err)
		}
	}
}
