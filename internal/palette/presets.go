package palette

import (
	"fmt"
	"math"
)

// Standard is the default rotation of schemes, foreground first.
var Standard = []Palette{
	MustNew("green", "blue", "blue"),
	MustNew("white", "blue", "purple"),
	MustNew("white", "red", "red"),
	MustNew("white", "red", "purple"),
	MustNew("red", "blue", "blue"),
	MustNew("magenta", "blue", "purple"),
	MustNew("blue", "purple", "purple"),
}

// Tropical is an alternative rotation with more green and yellow.
var Tropical = []Palette{
	MustNew("green", "blue", "blue"),
	MustNew("white", "blue", "purple"),
	MustNew("white", "green", "purple"),
	MustNew("white", "green", "yellow"),
	MustNew("magenta", "blue", "purple"),
	MustNew("blue", "purple", "purple"),
}

// Spectrum walks the color wheel in triads, 60° apart.
var Spectrum = []Palette{Triad(0), Triad(60), Triad(120), Triad(180), Triad(240), Triad(300)}

var sets = map[string][]Palette{
	"standard": Standard,
	"tropical": Tropical,
	"spectrum": Spectrum,
}

// Set returns the named preset rotation.
func Set(name string) ([]Palette, error) {
	s, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("palette: unknown set %q", name)
	}
	return s, nil
}

// Cycler steps through a rotation of palettes. With a drift set, the active
// palette's hue also turns a little on every Advance.
type Cycler struct {
	palettes []Palette
	index    int
	drift    float64
	hue      float64
}

// NewCycler returns a cycler positioned at the first palette. It panics on an
// empty rotation.
func NewCycler(palettes []Palette) *Cycler {
	if len(palettes) == 0 {
		panic("palette: empty rotation")
	}
	return &Cycler{palettes: palettes}
}

// Current returns the active palette, hue-shifted by the accumulated drift.
func (c *Cycler) Current() Palette {
	p := c.palettes[c.index]
	if c.hue == 0 {
		return p
	}
	return p.RotateHue(c.hue)
}

// Next advances to the following palette and returns it. The drift offset
// starts over.
func (c *Cycler) Next() Palette {
	c.index = (c.index + 1) % len(c.palettes)
	c.hue = 0
	return c.palettes[c.index]
}

// SetDrift sets the hue rotation in degrees applied per Advance.
func (c *Cycler) SetDrift(deg float64) { c.drift = deg }

// Advance applies one tick of hue drift.
func (c *Cycler) Advance() {
	if c.drift == 0 {
		return
	}
	c.hue = math.Mod(c.hue+c.drift, 360)
}

// Hue returns the current drift offset in degrees.
func (c *Cycler) Hue() float64 { return c.hue }

// Index returns the position of the active palette in the rotation.
func (c *Cycler) Index() int { return c.index }
