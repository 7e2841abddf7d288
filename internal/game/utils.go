package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// rgba converts a palette color to 8 bits with the given alpha.
func rgba(c palette.Color, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(geom.Clamp01(c.R) * 255),
		G: uint8(geom.Clamp01(c.G) * 255),
		B: uint8(geom.Clamp01(c.B) * 255),
		A: a,
	}
}
