package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/iburimskiy/laser-visualization/internal/geom"
)

const (
	// Upper edge of the bass band and lower edge of the treble band, in Hz.
	bassCutoff   = 250.0
	trebleCutoff = 2000.0

	// Band magnitudes below this never normalize to full scale, so leakage
	// and hiss stay dark.
	noiseFloor = 1e-3

	// Per-tick decay of the automatic gain peaks.
	peakDecay = 0.995

	// Compression applied to RMS for overall energy.
	energyCompression = 0.3
)

// AnalyzerConfig configures an Analyzer.
type AnalyzerConfig struct {
	SampleRate int
	// WindowSize is the FFT length; it is rounded up to a power of two.
	WindowSize int
	// Smoothing is the weight of the previous value in the exponential
	// smoothing of every derived signal, in [0,1).
	Smoothing float64
	// SustainWindow is the number of ticks averaged for sustained bass.
	SustainWindow int
}

// Analyzer derives bass, treble, overall energy and sustained bass from the
// most recent samples. Strobe and pulse are manual signals set by the
// operator and passed through unchanged.
type Analyzer struct {
	cfg    AnalyzerConfig
	window []float64

	bassPeak, treblePeak float64
	bass, treble, energy float64

	sustain    []float64
	sustainIdx int
	sustainN   int

	manual map[Signal]float64
}

// NewAnalyzer returns an analyzer. Zero fields take usable defaults.
func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 1024
	}
	cfg.WindowSize = nextPow2(cfg.WindowSize)
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = 0
	}
	if cfg.SustainWindow <= 0 {
		cfg.SustainWindow = 200
	}

	w := make([]float64, cfg.WindowSize)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(w)-1)))
	}
	return &Analyzer{
		cfg:     cfg,
		window:  w,
		sustain: make([]float64, cfg.SustainWindow),
		manual:  map[Signal]float64{},
	}
}

// WindowSize returns the number of samples Update wants per call.
func (a *Analyzer) WindowSize() int { return a.cfg.WindowSize }

// SetManual holds a manual signal (strobe, pulse) at v until changed.
func (a *Analyzer) SetManual(s Signal, v float64) {
	a.manual[s] = v
}

// Update consumes the latest stereo samples and returns the frame for this
// tick. Short or empty input is zero-padded.
func (a *Analyzer) Update(samples [][2]float64) Frame {
	mono := Mono(samples)
	if len(mono) > len(a.window) {
		mono = mono[len(mono)-len(a.window):]
	}

	var sumSquares float64
	in := make([]float64, len(a.window))
	for i, v := range mono {
		sumSquares += v * v
		in[i] = v * a.window[i]
	}
	rms := 0.0
	if len(mono) > 0 {
		rms = math.Sqrt(sumSquares / float64(len(mono)))
	}

	bassMag, trebleMag := a.bands(in)
	a.bassPeak = math.Max(bassMag, math.Max(a.bassPeak*peakDecay, noiseFloor))
	a.treblePeak = math.Max(trebleMag, math.Max(a.treblePeak*peakDecay, noiseFloor))

	s := a.cfg.Smoothing
	a.bass = s*a.bass + (1-s)*geom.Clamp01(bassMag/a.bassPeak)
	a.treble = s*a.treble + (1-s)*geom.Clamp01(trebleMag/a.treblePeak)
	a.energy = s*a.energy + (1-s)*geom.Clamp01(math.Pow(rms, energyCompression))

	a.sustain[a.sustainIdx] = a.bass
	a.sustainIdx = (a.sustainIdx + 1) % len(a.sustain)
	if a.sustainN < len(a.sustain) {
		a.sustainN++
	}
	var sum float64
	for i := 0; i < a.sustainN; i++ {
		sum += a.sustain[i]
	}

	f := Frame{
		Bass:          a.bass,
		Treble:        a.treble,
		Energy:        a.energy,
		SustainedBass: sum / float64(a.sustainN),
	}
	for sig, v := range a.manual {
		f[sig] = v
	}
	return f
}

// bands returns the summed magnitudes of the bass and treble bands,
// normalized by the transform length.
func (a *Analyzer) bands(in []float64) (bass, treble float64) {
	spec := fft.FFTReal(in)
	n := len(in)
	binHz := float64(a.cfg.SampleRate) / float64(n)
	for i := 1; i < n/2; i++ {
		mag := cmplx.Abs(spec[i]) / float64(n)
		f := float64(i) * binHz
		switch {
		case f < bassCutoff:
			bass += mag
		case f >= trebleCutoff:
			treble += mag
		}
	}
	return bass, treble
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
