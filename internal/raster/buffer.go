// Package raster holds the CPU-side RGBA surface the laser and haze layers
// draw into. All drawing is additive with a per-channel clamp at 255 and
// silently clips anything outside the surface.
package raster

import (
	"image"
	"image/color"
	"math"
)

// Buffer is a width×height RGBA surface, 4 bytes per pixel, row-major.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
	}
}

// Clear zeroes every channel.
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// At returns the pixel at (x, y), or transparent black outside the surface.
func (b *Buffer) At(x, y int) color.RGBA {
	if !b.inside(x, y) {
		return color.RGBA{}
	}
	i := b.offset(x, y)
	return color.RGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// HasContent reports whether any channel of any pixel is non-zero.
func (b *Buffer) HasContent() bool {
	for _, v := range b.Pix {
		if v != 0 {
			return true
		}
	}
	return false
}

// Image exposes the buffer as an *image.RGBA sharing the same pixels.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Add blends c scaled by k into the pixel at (x, y). Each channel is
// truncated after scaling and saturates at 255.
func (b *Buffer) Add(x, y int, c color.RGBA, k float64) {
	if !b.inside(x, y) || !(k > 0) {
		return
	}
	if k > 1 {
		k = 1
	}
	i := b.offset(x, y)
	b.Pix[i] = addClamp(b.Pix[i], c.R, k)
	b.Pix[i+1] = addClamp(b.Pix[i+1], c.G, k)
	b.Pix[i+2] = addClamp(b.Pix[i+2], c.B, k)
	b.Pix[i+3] = addClamp(b.Pix[i+3], c.A, k)
}

// Fill adds c to every pixel of the w×h rectangle at (x, y).
func (b *Buffer) Fill(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, b.Width), min(y+h, b.Height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			b.Add(px, py, c, 1)
		}
	}
}

func (b *Buffer) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * 4
}

func addClamp(dst, src uint8, k float64) uint8 {
	v := int(dst) + int(float64(src)*k)
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}
