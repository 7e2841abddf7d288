package main

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
)

// synth fakes an analyzed four-on-the-floor track: a kick on every beat, a
// hat on the off-beat and a slow build that drops every 16 beats.
type synth struct {
	rng      *rand.Rand
	tickRate float64
	bpm      float64

	tick    int
	sustain float64
}

func newSynth(seed uint64, tickRate, bpm float64) *synth {
	return &synth{
		rng:      rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
		tickRate: tickRate,
		bpm:      bpm,
	}
}

// beat returns the position in beats at the current tick.
func (s *synth) beat() float64 {
	return float64(s.tick) / s.tickRate * s.bpm / 60
}

// Next returns the frame for the next tick.
func (s *synth) Next() audio.Frame {
	b := s.beat()
	s.tick++

	_, frac := math.Modf(b)
	kick := math.Exp(-6 * frac)
	hat := math.Exp(-12 * math.Abs(frac-0.5))
	build := math.Mod(b, 16) / 16

	bass := clamp(0.9*kick + 0.05*s.rng.Float64())
	treble := clamp(0.3*hat + 0.5*build + 0.1*s.rng.Float64())
	energy := clamp(0.45*bass + 0.35*treble + 0.3*build)
	s.sustain += (bass - s.sustain) * 0.02

	return audio.Frame{
		audio.Bass:          bass,
		audio.Treble:        treble,
		audio.Energy:        energy,
		audio.SustainedBass: s.sustain,
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
