package layer

import (
	"image/color"
	"math"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/raster"
)

const (
	hazeBlock     = 4
	hazeThreshold = 0.05
)

var hazeTint = color.RGBA{R: 40, G: 40, B: 50}

// Haze is a slow, faintly blue fog that drifts with the bass and thickens
// with sustained bass.
type Haze struct {
	width, height int
	density       float64
	phase         float64
	enabled       bool
}

func NewHaze(width, height int, density float64) *Haze {
	return &Haze{width: width, height: height, density: geom.Clamp01(density), enabled: true}
}

// SetDensity sets the fog density, clamped to [0,1].
func (h *Haze) SetDensity(d float64) { h.density = geom.Clamp01(d) }

func (h *Haze) Density() float64   { return h.density }
func (h *Haze) Phase() float64     { return h.phase }
func (h *Haze) SetEnabled(on bool) { h.enabled = on }
func (h *Haze) Enabled() bool      { return h.enabled }

// Render advances the drift and paints the fog in 4×4 blocks, sampling the
// pattern at each block's top-left corner. It returns false when the layer is
// disabled or the fog is too thin to show.
func (h *Haze) Render(fr audio.Frame) (*raster.Buffer, bool) {
	if !h.enabled {
		return nil, false
	}
	h.phase += 0.01 * (1 + fr.Bass())
	base := h.density * (0.3 + 0.7*fr.SustainedBass())
	if base <= hazeThreshold || h.width <= 0 || h.height <= 0 {
		return nil, false
	}

	buf := raster.NewBuffer(h.width, h.height)
	for y := 0; y < h.height; y += hazeBlock {
		wy := math.Sin(float64(y)*0.01 + h.phase*0.7)
		for x := 0; x < h.width; x += hazeBlock {
			wave := (math.Sin(float64(x)*0.01+h.phase) + wy) / 2
			v := base * (0.7 + 0.3*wave)
			if v <= hazeThreshold {
				continue
			}
			c := hazeTint
			c.A = uint8(v * 60)
			buf.Fill(x, y, hazeBlock, hazeBlock, c)
		}
	}
	return buf, true
}
