package effects

import (
	"math"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// MatrixConfig configures a Matrix.
type MatrixConfig struct {
	Cols, Rows int
	PulseSpeed float64
	// WaveNumber is the number of wave crests per unit of distance from the
	// grid centre.
	WaveNumber float64
	// Margin insets the grid from the canvas edges.
	Margin float64
}

func DefaultMatrixConfig() MatrixConfig {
	return MatrixConfig{Cols: 6, Rows: 4, PulseSpeed: 0.08, WaveNumber: 1.5, Margin: 0.1}
}

// Matrix pulses a fixed grid of dots with a wave travelling outward from
// the centre.
type Matrix struct {
	cfg   MatrixConfig
	cells []MatrixCell
	dist  []float64
	phase float64
}

func NewMatrix(cfg MatrixConfig) (*Matrix, error) {
	if cfg.Cols < 1 || cfg.Rows < 1 {
		return nil, invalid(KindMatrix, "grid must be at least 1x1, got %dx%d", cfg.Cols, cfg.Rows)
	}
	if err := checkPositive(KindMatrix, "pulse speed", cfg.PulseSpeed); err != nil {
		return nil, err
	}
	if err := checkPositive(KindMatrix, "wave number", cfg.WaveNumber); err != nil {
		return nil, err
	}
	if cfg.Margin < 0 || cfg.Margin >= 0.5 {
		return nil, invalid(KindMatrix, "margin must be in [0,0.5), got %v", cfg.Margin)
	}

	m := &Matrix{
		cfg:   cfg,
		cells: make([]MatrixCell, 0, cfg.Cols*cfg.Rows),
		dist:  make([]float64, 0, cfg.Cols*cfg.Rows),
	}
	centre := geom.Point{X: 0.5, Y: 0.5}
	for r := 0; r < cfg.Rows; r++ {
		for c := 0; c < cfg.Cols; c++ {
			x := gridCoord(c, cfg.Cols, cfg.Margin)
			y := gridCoord(r, cfg.Rows, cfg.Margin)
			m.cells = append(m.cells, MatrixCell{Col: c, Row: r, X: x, Y: y})
			m.dist = append(m.dist, math.Hypot(x-centre.X, y-centre.Y))
		}
	}
	return m, nil
}

func gridCoord(i, n int, margin float64) float64 {
	if n == 1 {
		return 0.5
	}
	return margin + (1-2*margin)*float64(i)/float64(n-1)
}

func (m *Matrix) Kind() Kind { return KindMatrix }

func (m *Matrix) Step(fr audio.Frame, p palette.Palette) {
	m.phase += m.cfg.PulseSpeed * (1 + fr.Energy())
	shift := int(m.phase)
	for i := range m.cells {
		c := &m.cells[i]
		c.Intensity = geom.Clamp01(0.5 + 0.5*math.Sin(2*math.Pi*(m.cfg.WaveNumber*m.dist[i]-m.phase)))
		c.Color = p.At(c.Col + c.Row + shift)
		c.Enabled = c.Intensity > 0
	}
}

func (m *Matrix) Snapshot() Snapshot {
	return MatrixSnapshot{
		Cols:       m.cfg.Cols,
		Rows:       m.cfg.Rows,
		PulsePhase: m.phase,
		Cells:      append([]MatrixCell(nil), m.cells...),
	}
}
