package effects

import (
	"math"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// ScanConfig configures a Scan.
type ScanConfig struct {
	Count int
	// Speed is the phase advance per tick before the treble boost.
	Speed float64
	// Range is the sweep width in degrees.
	Range     float64
	Origin    geom.Point
	Direction float64
	Length    float64
	Width     int
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Count:  4,
		Speed:  0.05,
		Range:  160,
		Origin: geom.Point{X: 0.5, Y: 0.5},
		Length: 0.45,
		Width:  2,
	}
}

// Scan sweeps a group of beams back and forth across a range, reflecting at
// both ends.
type Scan struct {
	cfg       ScanConfig
	sweep     float64 // radians
	dir0      float64
	offsets   []float64
	beams     []Beam
	phase     float64
	direction int
}

func NewScan(cfg ScanConfig) (*Scan, error) {
	if err := checkCount(KindScan, "count", cfg.Count); err != nil {
		return nil, err
	}
	if err := checkPositive(KindScan, "speed", cfg.Speed); err != nil {
		return nil, err
	}
	if err := checkPositive(KindScan, "range", cfg.Range); err != nil {
		return nil, err
	}
	if err := checkPoint(KindScan, "origin", cfg.Origin); err != nil {
		return nil, err
	}
	if err := checkPositive(KindScan, "length", cfg.Length); err != nil {
		return nil, err
	}
	if err := checkUnit(KindScan, "length", cfg.Length); err != nil {
		return nil, err
	}
	if err := checkWidth(KindScan, cfg.Width); err != nil {
		return nil, err
	}

	s := &Scan{
		cfg:       cfg,
		sweep:     geom.Radians(cfg.Range),
		dir0:      geom.Radians(cfg.Direction),
		offsets:   make([]float64, cfg.Count),
		beams:     make([]Beam, cfg.Count),
		direction: 1,
	}
	for i := range s.beams {
		s.offsets[i] = (float64(i) - float64(cfg.Count-1)/2) * s.sweep / float64(cfg.Count)
		a := geom.NormalizeAngle(s.dir0 + s.offsets[i])
		s.beams[i] = Beam{
			ID:           i,
			Origin:       cfg.Origin,
			BaseAngle:    a,
			CurrentAngle: a,
			Length:       cfg.Length,
			Width:        cfg.Width,
		}
	}
	return s, nil
}

func (s *Scan) Kind() Kind { return KindScan }

// Phase returns the sweep position in [-1,1].
func (s *Scan) Phase() float64 { return s.phase }

// Direction returns +1 while sweeping towards +1 and -1 otherwise.
func (s *Scan) Direction() int { return s.direction }

func (s *Scan) Step(fr audio.Frame, p palette.Palette) {
	s.phase += float64(s.direction) * s.cfg.Speed * (1 + fr.Treble())
	if math.Abs(s.phase) >= 1 {
		s.phase = geom.Clamp(s.phase, -1, 1)
		s.direction = -s.direction
	}

	energy := fr.Energy()
	half := s.sweep / 2
	for i := range s.beams {
		b := &s.beams[i]
		rel := s.offsets[i] + s.phase*half
		b.CurrentAngle = geom.NormalizeAngle(s.dir0 + rel)
		centre := 1.0
		if half > 0 {
			centre = 1 - 0.5*math.Min(1, math.Abs(rel)/half)
		}
		b.Intensity = geom.Clamp01(energy * centre)
		b.Color = p.At(i)
		b.Enabled = b.Intensity > 0.02
	}
}

func (s *Scan) Snapshot() Snapshot {
	return ScanSnapshot{Beams: append([]Beam(nil), s.beams...)}
}
