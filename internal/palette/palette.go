// Package palette provides the three-color schemes the effects paint with.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"github.com/iburimskiy/laser-visualization/internal/geom"
)

// ErrUnknownColor is returned when a color name or hex string cannot be resolved.
var ErrUnknownColor = errors.New("palette: unknown color")

// Color is an RGB triple with channels in [0,1].
type Color struct {
	R, G, B float64
}

// FromRGBA converts an 8-bit color.
func FromRGBA(c color.RGBA) Color {
	return Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Parse resolves a CSS color name ("purple") or a hex string ("#9000ff").
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
		}
		return Color{R: c.R, G: c.G, B: c.B}, nil
	}
	rgba, ok := colornames.Map[s]
	if !ok {
		return Color{}, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return FromRGBA(rgba), nil
}

// Scale multiplies every channel by k and clamps the result to [0,1].
func (c Color) Scale(k float64) Color {
	return Color{R: geom.Clamp01(c.R * k), G: geom.Clamp01(c.G * k), B: geom.Clamp01(c.B * k)}
}

// RotateHue shifts the hue by deg degrees, keeping saturation and value.
func (c Color) RotateHue(deg float64) Color {
	h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
	h = math.Mod(h+deg, 360)
	if h < 0 {
		h += 360
	}
	out := colorful.Hsv(h, s, v).Clamped()
	return Color{R: out.R, G: out.G, B: out.B}
}

// Palette is the ordered color triple handed to every interpreter each tick.
type Palette struct {
	Primary   Color
	Secondary Color
	Tertiary  Color
}

// New builds a palette from three color names or hex strings.
func New(primary, secondary, tertiary string) (Palette, error) {
	var p Palette
	var err error
	if p.Primary, err = Parse(primary); err != nil {
		return Palette{}, err
	}
	if p.Secondary, err = Parse(secondary); err != nil {
		return Palette{}, err
	}
	if p.Tertiary, err = Parse(tertiary); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// MustNew is New for static tables. It panics on an unknown color.
func MustNew(primary, secondary, tertiary string) Palette {
	p, err := New(primary, secondary, tertiary)
	if err != nil {
		panic(err)
	}
	return p
}

// At returns the color at index i modulo three. Negative indices wrap.
func (p Palette) At(i int) Color {
	switch ((i % 3) + 3) % 3 {
	case 0:
		return p.Primary
	case 1:
		return p.Secondary
	default:
		return p.Tertiary
	}
}

// RotateHue shifts all three colors by deg degrees.
func (p Palette) RotateHue(deg float64) Palette {
	return Palette{
		Primary:   p.Primary.RotateHue(deg),
		Secondary: p.Secondary.RotateHue(deg),
		Tertiary:  p.Tertiary.RotateHue(deg),
	}
}

// Triad builds a saturated palette from three hues 120° apart starting at hue.
func Triad(hue float64) Palette {
	mk := func(h float64) Color {
		c := colorful.Hsv(math.Mod(h, 360), 0.9, 1).Clamped()
		return Color{R: c.R, G: c.G, B: c.B}
	}
	return Palette{Primary: mk(hue), Secondary: mk(hue + 120), Tertiary: mk(hue + 240)}
}
