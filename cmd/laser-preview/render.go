package main

import (
	"image/color"

	"github.com/iburimskiy/laser-visualization/internal/raster"
)

// downsample reduces the composite of laser over haze to cols×rows pixels,
// keeping the brightest source pixel per channel in each box. Either buffer
// may be nil; both must have the same size when present.
func downsample(laser, haze *raster.Buffer, cols, rows int) []color.RGBA {
	out := make([]color.RGBA, cols*rows)
	src := laser
	if src == nil {
		src = haze
	}
	if src == nil || cols <= 0 || rows <= 0 {
		return out
	}
	for r := 0; r < rows; r++ {
		y0, y1 := r*src.Height/rows, max((r+1)*src.Height/rows, r*src.Height/rows+1)
		for c := 0; c < cols; c++ {
			x0, x1 := c*src.Width/cols, max((c+1)*src.Width/cols, c*src.Width/cols+1)
			var px color.RGBA
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					p := composite(laser, haze, x, y)
					px.R = max(px.R, p.R)
					px.G = max(px.G, p.G)
					px.B = max(px.B, p.B)
					px.A = max(px.A, p.A)
				}
			}
			out[r*cols+c] = px
		}
	}
	return out
}

// composite weights the laser and the haze by their alpha and adds them.
// Both buffers hold straight (non-premultiplied) color.
func composite(laser, haze *raster.Buffer, x, y int) color.RGBA {
	var p color.RGBA
	if laser != nil {
		l := laser.At(x, y)
		p.R = addScaled(0, l.R, l.A)
		p.G = addScaled(0, l.G, l.A)
		p.B = addScaled(0, l.B, l.A)
		p.A = l.A
	}
	if haze != nil {
		h := haze.At(x, y)
		p.R = addScaled(p.R, h.R, h.A)
		p.G = addScaled(p.G, h.G, h.A)
		p.B = addScaled(p.B, h.B, h.A)
		p.A = max(p.A, h.A)
	}
	return p
}

func addScaled(dst, src, alpha uint8) uint8 {
	return uint8(min(255, int(dst)+int(src)*int(alpha)/255))
}
