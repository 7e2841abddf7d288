package layer

import (
	"math"
	"testing"

	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

var (
	red   = palette.Color{R: 1}
	green = palette.Color{G: 1}
)

func fanOf(angle float64, c palette.Color, intensity float64) effects.FanSnapshot {
	return effects.FanSnapshot{Beams: []effects.Beam{{
		Origin:       geom.Point{X: 0.5, Y: 0.9},
		CurrentAngle: angle,
		Intensity:    intensity,
		Color:        c,
		Length:       0.8,
		Width:        3,
		Enabled:      true,
	}}}
}

func TestLaserEmptyRendersNoContent(t *testing.T) {
	l := NewLaser(64, 48)
	if buf, ok := l.Render(); ok || buf != nil {
		t.Error("empty layer reported content")
	}

	l.Register(effects.FanSnapshot{Beams: []effects.Beam{{Intensity: 1, Color: red, Length: 0.5, Width: 2}}})
	if _, ok := l.Render(); ok {
		t.Error("disabled beam produced content")
	}
}

func TestLaserFanBeamDrawn(t *testing.T) {
	l := NewLaser(64, 48)
	l.Register(fanOf(0, red, 1))
	buf, ok := l.Render()
	if !ok {
		t.Fatal("no content for a lit beam")
	}
	// A vertical beam from (32,43) upwards.
	if c := buf.At(32, 30); c.R == 0 || c.G != 0 || c.B != 0 {
		t.Errorf("pixel on beam = %v, want red", c)
	}
	if c := buf.At(5, 30); c.R != 0 {
		t.Errorf("pixel off beam = %v, want empty", c)
	}
}

func TestLaserChannelsNeverOverflow(t *testing.T) {
	l := NewLaser(32, 32)
	for i := 0; i < 50; i++ {
		l.Register(fanOf(0, palette.Color{R: 1, G: 1, B: 1}, 1))
		l.Register(effects.MatrixSnapshot{Cells: []effects.MatrixCell{{X: 0.5, Y: 0.5, Intensity: 1, Color: red, Enabled: true}}})
	}
	buf, ok := l.Render()
	if !ok {
		t.Fatal("no content")
	}
	// Pix is []uint8 so overflow would wrap; a saturated centre proves clamping.
	if c := buf.At(16, 16); c.R != 255 || c.A != 255 {
		t.Errorf("centre = %v, want saturated", c)
	}
}

func TestLaserRenderIdempotent(t *testing.T) {
	render := func() []uint8 {
		l := NewLaser(80, 60)
		l.Register(fanOf(0.3, red, 0.7))
		l.Register(effects.ChaseSnapshot{
			Centre: geom.Point{X: 0.5, Y: 0.5}, Radius: 0.3,
			Chasers: []effects.Chaser{{Position: 0.25, Intensity: 0.9, Color: green,
				Trail: []effects.TrailPoint{{Position: 0.25, Intensity: 0.9}, {Position: 0.2, Intensity: 0.5}}}},
		})
		buf, ok := l.Render()
		if !ok {
			t.Fatal("no content")
		}
		return buf.Pix
	}
	a, b := render(), render()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs between renders", i)
		}
	}
}

func TestLaserRegistrationOrderIndependent(t *testing.T) {
	a := NewLaser(64, 48)
	a.Register(fanOf(0.2, red, 0.9))
	a.Register(fanOf(-0.2, green, 0.6))
	b := NewLaser(64, 48)
	b.Register(fanOf(-0.2, green, 0.6))
	b.Register(fanOf(0.2, red, 0.9))

	ba, _ := a.Render()
	bb, _ := b.Render()
	for i := range ba.Pix {
		if ba.Pix[i] != bb.Pix[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, ba.Pix[i], bb.Pix[i])
		}
	}
}

func TestLaserResetClears(t *testing.T) {
	l := NewLaser(32, 32)
	l.Register(fanOf(0, red, 1))
	l.Reset()
	if st := l.Stats(); st.Total() != 0 {
		t.Errorf("stats after reset = %+v", st)
	}
	if _, ok := l.Render(); ok {
		t.Error("content after reset")
	}
}

func TestLaserDisabled(t *testing.T) {
	l := NewLaser(32, 32)
	l.Register(fanOf(0, red, 1))
	l.SetEnabled(false)
	if _, ok := l.Render(); ok {
		t.Error("disabled layer rendered content")
	}
	l.SetEnabled(true)
	if _, ok := l.Render(); !ok {
		t.Error("re-enabled layer rendered nothing")
	}
}

func TestLaserBeamIntensityScalesAlphaOnly(t *testing.T) {
	l := NewLaser(40, 40)
	l.SetGlow(false)
	l.Register(effects.MatrixSnapshot{Cells: []effects.MatrixCell{{X: 0.5, Y: 0.5, Intensity: 1, Color: red, Enabled: true}}})

	l.SetBeamIntensity(1)
	full, _ := l.Render()
	l.SetBeamIntensity(0.5)
	half, _ := l.Render()

	if full.At(20, 20).R != half.At(20, 20).R {
		t.Error("beam intensity changed color channels")
	}
	if got, want := half.At(20, 20).A, uint8(127); got != want {
		t.Errorf("alpha = %d, want %d", got, want)
	}
	if full.At(20, 20).A != 255 {
		t.Errorf("full alpha = %d", full.At(20, 20).A)
	}
}

func TestSetBeamIntensityClamps(t *testing.T) {
	l := NewLaser(1, 1)
	for _, tt := range []struct{ in, want float64 }{{-1, 0}, {2, 1}, {0.4, 0.4}, {math.NaN(), 0}} {
		l.SetBeamIntensity(tt.in)
		if l.BeamIntensity() != tt.want {
			t.Errorf("SetBeamIntensity(%v) -> %v, want %v", tt.in, l.BeamIntensity(), tt.want)
		}
	}
}

func TestLaserSkipsNaNGeometry(t *testing.T) {
	l := NewLaser(32, 32)
	l.Register(fanOf(math.NaN(), red, 1))
	l.Register(effects.SpiralSnapshot{Arms: []effects.SpiralArm{{Color: red, Points: []effects.SpiralPoint{{X: math.NaN(), Y: 0.5, Intensity: 1}}}}})
	l.Register(effects.BurstSnapshot{Origin: geom.Point{X: 0.5, Y: 0.5}, Beams: []effects.BurstBeam{{Angle: math.NaN(), Length: 0.4, Intensity: 1, Color: red, Width: 2}}})
	if _, ok := l.Render(); ok {
		t.Error("NaN geometry produced content")
	}
}

func TestLaserOffCanvasDotsClipped(t *testing.T) {
	l := NewLaser(20, 20)
	l.Register(effects.SpiralSnapshot{Arms: []effects.SpiralArm{{Color: red, Points: []effects.SpiralPoint{
		{X: 1, Y: 1, Intensity: 1},
		{X: -3, Y: 4, Intensity: 1},
	}}}})
	buf, ok := l.Render()
	if !ok {
		t.Fatal("corner dot fully clipped")
	}
	if buf.At(19, 19).R == 0 {
		t.Error("pixel next to the corner dot is empty")
	}
}

func TestLaserStats(t *testing.T) {
	l := NewLaser(32, 32)
	fan := fanOf(0, red, 1)
	fan.Beams = append(fan.Beams, effects.Beam{Enabled: false})
	l.Register(fan)
	l.Register(effects.ScanSnapshot{Beams: []effects.Beam{{Enabled: true}, {Enabled: true}}})
	l.Register(effects.MatrixSnapshot{Cells: []effects.MatrixCell{{Enabled: true}, {Enabled: false}, {Enabled: true}}})
	l.Register(effects.ChaseSnapshot{Chasers: make([]effects.Chaser, 4)})
	l.Register(effects.BurstSnapshot{Beams: make([]effects.BurstBeam, 5)})
	l.Register(effects.SpiralSnapshot{Arms: make([]effects.SpiralArm, 3)})
	l.Register(effects.TunnelSnapshot{Rings: make([]effects.TunnelRing, 8)})
	l.Register(nil)

	want := Stats{FanBeams: 1, ScanBeams: 2, MatrixPoints: 2, Chasers: 4, BurstBeams: 5, Spirals: 3, TunnelRings: 8}
	if got := l.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	if want.Total() != 25 {
		t.Errorf("Total() = %d", want.Total())
	}
}

func TestLaserTunnelDrawsRings(t *testing.T) {
	l := NewLaser(100, 100)
	l.Register(effects.TunnelSnapshot{
		Centre: geom.Point{X: 0.5, Y: 0.5},
		Rings:  []effects.TunnelRing{{Size: 0.5, Intensity: 1, Color: green}},
	})
	buf, ok := l.Render()
	if !ok {
		t.Fatal("no content")
	}
	// Radius 25 px, first dot at rotation 0 lands on (75,50).
	if buf.At(75, 50).G == 0 {
		t.Error("ring dot missing at rotation 0")
	}
	if buf.At(50, 50).G != 0 {
		t.Error("ring centre should be empty")
	}
}
