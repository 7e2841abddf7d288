package main

import (
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/layer"
	"github.com/iburimskiy/laser-visualization/internal/palette"
	"github.com/iburimskiy/laser-visualization/internal/raster"
)

func TestSynthStaysInRange(t *testing.T) {
	s := newSynth(1, 30, 128)
	for i := 0; i < 3000; i++ {
		fr := s.Next()
		for _, sig := range []audio.Signal{audio.Bass, audio.Treble, audio.Energy, audio.SustainedBass} {
			if v := fr[sig]; v < 0 || v > 1 {
				t.Fatalf("tick %d: %s = %v", i, sig, v)
			}
		}
	}
}

func TestSynthKicksOnTheBeat(t *testing.T) {
	// 60 bpm at 10 ticks per second: a beat every 10 ticks.
	s := newSynth(1, 10, 60)
	var bass []float64
	for i := 0; i < 20; i++ {
		bass = append(bass, s.Next().Bass())
	}
	if bass[0] < 0.85 || bass[10] < 0.85 {
		t.Errorf("kick missing on the beat: %v, %v", bass[0], bass[10])
	}
	if bass[5] > 0.2 {
		t.Errorf("bass = %v between beats", bass[5])
	}
}

func TestDownsampleKeepsBrightest(t *testing.T) {
	buf := raster.NewBuffer(8, 8)
	buf.Add(5, 6, color.RGBA{R: 200, A: 255}, 1)
	px := downsample(buf, nil, 2, 2)
	if len(px) != 4 {
		t.Fatalf("len = %d", len(px))
	}
	if px[3].R != 200 {
		t.Errorf("bottom-right = %v, want the lit pixel", px[3])
	}
	for i := 0; i < 3; i++ {
		if px[i] != (color.RGBA{}) {
			t.Errorf("cell %d = %v, want empty", i, px[i])
		}
	}
}

func TestDownsampleUpscales(t *testing.T) {
	buf := raster.NewBuffer(2, 2)
	buf.Add(0, 0, color.RGBA{G: 90, A: 255}, 1)
	px := downsample(buf, nil, 4, 4)
	if px[0].G != 90 || px[1].G != 90 || px[4].G != 90 || px[5].G != 90 {
		t.Errorf("top-left quadrant not filled: %v", px[:6])
	}
	if px[2].G != 0 {
		t.Errorf("top-right = %v", px[2])
	}
}

func TestCompositeHaze(t *testing.T) {
	laser := raster.NewBuffer(1, 1)
	laser.Add(0, 0, color.RGBA{R: 250, G: 10, A: 255}, 1)
	haze := raster.NewBuffer(1, 1)
	haze.Add(0, 0, color.RGBA{R: 40, G: 40, B: 50, A: 51}, 1)

	got := composite(laser, haze, 0, 0)
	want := color.RGBA{R: 255, G: 18, B: 10, A: 255}
	if got != want {
		t.Errorf("composite = %v, want %v", got, want)
	}
	if got := downsample(nil, nil, 3, 3); len(got) != 9 {
		t.Errorf("empty downsample len = %d", len(got))
	}
}

func TestBeamIntensityDimsPreview(t *testing.T) {
	brightness := func(intensity float64) int {
		l := layer.NewLaser(64, 48)
		l.SetBeamIntensity(intensity)
		l.Register(effects.FanSnapshot{Beams: []effects.Beam{{
			Origin:    geom.Point{X: 0.5, Y: 0.9},
			Intensity: 1,
			Color:     palette.Color{G: 1, B: 1},
			Length:    0.8,
			Width:     3,
			Enabled:   true,
		}}})
		buf, ok := l.Render()
		if !ok {
			t.Fatalf("intensity %v: no content", intensity)
		}
		sum := 0
		for _, px := range downsample(buf, nil, 16, 12) {
			sum += int(px.R) + int(px.G) + int(px.B)
		}
		return sum
	}

	full, dim := brightness(1), brightness(0.1)
	if full == 0 {
		t.Fatal("full intensity rendered black")
	}
	if dim >= full {
		t.Errorf("intensity 0.1 sum = %d, want below %d", dim, full)
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()

	events := make(chan tcell.Event) // never read
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(exited)
	}()

	if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatal(err)
	}
	close(done)
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("event poller still blocked after done was closed")
	}
}
