// Package audio turns played samples into the per-tick feature frame the
// effect interpreters react to.
package audio

import "math"

// Signal names one normalized audio feature.
type Signal string

const (
	Bass          Signal = "bass"
	Treble        Signal = "treble"
	Energy        Signal = "energy"
	SustainedBass Signal = "sustained-bass"
	Strobe        Signal = "strobe"
	Pulse         Signal = "pulse"
)

// Signals lists every recognized signal in a stable order.
var Signals = []Signal{Bass, Treble, Energy, SustainedBass, Strobe, Pulse}

// Frame maps signals to values in [0,1] for one tick. Interpreters only read
// it; a nil Frame is valid and reads as silence.
type Frame map[Signal]float64

// Get returns the value of s clamped to [0,1]. Missing, NaN and negative
// values read as 0.
func (f Frame) Get(s Signal) float64 {
	v, ok := f[s]
	if !ok || math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (f Frame) Bass() float64          { return f.Get(Bass) }
func (f Frame) Treble() float64        { return f.Get(Treble) }
func (f Frame) Energy() float64        { return f.Get(Energy) }
func (f Frame) SustainedBass() float64 { return f.Get(SustainedBass) }
func (f Frame) Strobe() float64        { return f.Get(Strobe) }
func (f Frame) Pulse() float64         { return f.Get(Pulse) }

// With returns a copy of f with s set to v.
func (f Frame) With(s Signal, v float64) Frame {
	out := make(Frame, len(f)+1)
	for k, x := range f {
		out[k] = x
	}
	out[s] = v
	return out
}
