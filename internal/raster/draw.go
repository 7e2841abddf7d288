package raster

import (
	"image/color"
	"math"
)

// Line walks the integer Bresenham line from (x0, y0) to (x1, y1), both ends
// included, calling plot for every pixel. A zero-length line plots nothing.
func Line(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	if dx == 0 && dy == 0 {
		return
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0
	for {
		plot(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// Beam draws a thick line. Every pixel on the centre line stamps a square of
// half-size width/2. With glow each stamped pixel is scaled by 1-d/width,
// where d is its distance from the centre pixel; without glow the square is
// cut to a disk of radius width/2 at full value.
func (b *Buffer) Beam(x0, y0, x1, y1, width int, c color.RGBA, glow bool) {
	if width < 1 {
		width = 1
	}
	half := width / 2
	Line(x0, y0, x1, y1, func(x, y int) {
		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				d := math.Hypot(float64(dx), float64(dy))
				if glow {
					if d <= float64(width) {
						b.Add(x+dx, y+dy, c, 1-d/float64(width))
					}
					continue
				}
				if d <= float64(width)/2 {
					b.Add(x+dx, y+dy, c, 1)
				}
			}
		}
	})
}

// Dot stamps a disk of the given radius with linear falloff towards the rim.
// A zero radius paints the single centre pixel.
func (b *Buffer) Dot(x, y, radius int, c color.RGBA) {
	if radius <= 0 {
		b.Add(x, y, c, 1)
		return
	}
	r := float64(radius)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d <= r {
				b.Add(x+dx, y+dy, c, 1-d/r)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
