// Package geom holds the small amount of geometry shared by the effect
// interpreters and the rasterizer. Coordinates are normalized: (0,0) is the
// top-left corner of the canvas and (1,1) the bottom-right.
package geom

import "math"

// Point is a position on the normalized canvas.
type Point struct {
	X, Y float64
}

// Clamped returns p with both coordinates clamped to [0,1].
func (p Point) Clamped() Point {
	return Point{X: Clamp01(p.X), Y: Clamp01(p.Y)}
}

// Pixel maps p onto a width×height raster. The result may lie outside the
// raster; callers clip.
func (p Point) Pixel(width, height int) (int, int) {
	return int(p.X * float64(width)), int(p.Y * float64(height))
}

// Clamp01 clamps v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Clamp clamps v to [lo,hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// NormalizeAngle maps a to the half-open interval (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// Wrap01 maps v into [0,1).
func Wrap01(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	if v >= 1 {
		v = 0
	}
	return v
}

// Ray returns the point at distance length from origin along angle, where an
// angle of 0 points straight up and positive angles turn counter-clockwise.
// Screen y grows downward, hence the negated sine.
func Ray(origin Point, angle, length float64) Point {
	a := angle + math.Pi/2
	return Point{
		X: origin.X + length*math.Cos(a),
		Y: origin.Y - length*math.Sin(a),
	}
}

// Polar returns centre + r·(cos θ, sin θ) in screen coordinates.
func Polar(centre Point, r, theta float64) Point {
	return Point{
		X: centre.X + r*math.Cos(theta),
		Y: centre.Y + r*math.Sin(theta),
	}
}
