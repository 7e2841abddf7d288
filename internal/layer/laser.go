// Package layer turns effect snapshots and audio into RGBA raster layers
// ready for compositing.
package layer

import (
	"image/color"
	"math"

	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
	"github.com/iburimskiy/laser-visualization/internal/raster"
)

// Dot radii in pixels per element kind.
const (
	MatrixDotSize = 4
	ChaserDotSize = 6
	SpiralDotSize = 3
	TunnelDotSize = 2
)

// DefaultBeamIntensity is the alpha multiplier a new Laser starts with.
const DefaultBeamIntensity = 0.8

// Stats counts the elements registered for the current tick.
type Stats struct {
	FanBeams     int
	ScanBeams    int
	MatrixPoints int
	Chasers      int
	BurstBeams   int
	Spirals      int
	TunnelRings  int
}

// Total sums every count.
func (s Stats) Total() int {
	return s.FanBeams + s.ScanBeams + s.MatrixPoints + s.Chasers + s.BurstBeams + s.Spirals + s.TunnelRings
}

// Laser rasterizes the snapshots registered since the last Reset.
//
// The expected per-tick cycle is Reset, one Register per interpreter, then
// Render. A Laser is not safe for concurrent use.
type Laser struct {
	width, height int

	glow          bool
	beamIntensity float64
	enabled       bool

	fans    []effects.FanSnapshot
	scans   []effects.ScanSnapshot
	matrix  []effects.MatrixSnapshot
	chasers []effects.ChaseSnapshot
	bursts  []effects.BurstSnapshot
	spirals []effects.SpiralSnapshot
	tunnels []effects.TunnelSnapshot
}

func NewLaser(width, height int) *Laser {
	return &Laser{
		width:         width,
		height:        height,
		glow:          true,
		beamIntensity: DefaultBeamIntensity,
		enabled:       true,
	}
}

func (l *Laser) Size() (int, int) { return l.width, l.height }

func (l *Laser) SetGlow(on bool)    { l.glow = on }
func (l *Laser) Glow() bool         { return l.glow }
func (l *Laser) SetEnabled(on bool) { l.enabled = on }
func (l *Laser) Enabled() bool      { return l.enabled }

// SetBeamIntensity sets the alpha multiplier, clamped to [0,1].
func (l *Laser) SetBeamIntensity(v float64) { l.beamIntensity = geom.Clamp01(v) }

func (l *Laser) BeamIntensity() float64 { return l.beamIntensity }

// Reset drops everything registered for the previous tick.
func (l *Laser) Reset() {
	l.fans = l.fans[:0]
	l.scans = l.scans[:0]
	l.matrix = l.matrix[:0]
	l.chasers = l.chasers[:0]
	l.bursts = l.bursts[:0]
	l.spirals = l.spirals[:0]
	l.tunnels = l.tunnels[:0]
}

// Register queues a snapshot under its kind. A nil snapshot is ignored.
func (l *Laser) Register(s effects.Snapshot) {
	switch s := s.(type) {
	case effects.FanSnapshot:
		l.fans = append(l.fans, s)
	case effects.ScanSnapshot:
		l.scans = append(l.scans, s)
	case effects.MatrixSnapshot:
		l.matrix = append(l.matrix, s)
	case effects.ChaseSnapshot:
		l.chasers = append(l.chasers, s)
	case effects.BurstSnapshot:
		l.bursts = append(l.bursts, s)
	case effects.SpiralSnapshot:
		l.spirals = append(l.spirals, s)
	case effects.TunnelSnapshot:
		l.tunnels = append(l.tunnels, s)
	}
}

// Stats reports what is currently registered. Fan and scan beams and matrix
// points count only when enabled.
func (l *Laser) Stats() Stats {
	var st Stats
	for _, f := range l.fans {
		st.FanBeams += enabledBeams(f.Beams)
	}
	for _, s := range l.scans {
		st.ScanBeams += enabledBeams(s.Beams)
	}
	for _, m := range l.matrix {
		for _, c := range m.Cells {
			if c.Enabled {
				st.MatrixPoints++
			}
		}
	}
	for _, c := range l.chasers {
		st.Chasers += len(c.Chasers)
	}
	for _, b := range l.bursts {
		st.BurstBeams += len(b.Beams)
	}
	for _, s := range l.spirals {
		st.Spirals += len(s.Arms)
	}
	for _, t := range l.tunnels {
		st.TunnelRings += len(t.Rings)
	}
	return st
}

func enabledBeams(beams []effects.Beam) int {
	n := 0
	for _, b := range beams {
		if b.Enabled {
			n++
		}
	}
	return n
}

// Render draws every registered snapshot into a fresh buffer. It returns
// false when the layer is disabled or nothing visible was drawn.
func (l *Laser) Render() (*raster.Buffer, bool) {
	if !l.enabled || l.width <= 0 || l.height <= 0 {
		return nil, false
	}
	buf := raster.NewBuffer(l.width, l.height)
	l.drawFans(buf)
	l.drawScans(buf)
	l.drawMatrix(buf)
	l.drawChasers(buf)
	l.drawBursts(buf)
	l.drawSpirals(buf)
	l.drawTunnels(buf)
	if !buf.HasContent() {
		return nil, false
	}
	return buf, true
}

func (l *Laser) drawFans(buf *raster.Buffer) {
	for _, f := range l.fans {
		l.drawBeams(buf, f.Beams)
	}
}

func (l *Laser) drawScans(buf *raster.Buffer) {
	for _, s := range l.scans {
		l.drawBeams(buf, s.Beams)
	}
}

func (l *Laser) drawBeams(buf *raster.Buffer, beams []effects.Beam) {
	for _, b := range beams {
		if !b.Enabled || math.IsNaN(b.CurrentAngle) || math.IsNaN(b.Length) || !finite(b.Origin) {
			continue
		}
		start, end := b.Endpoints()
		l.beam(buf, start, end, b.Color, b.Intensity, b.Width)
	}
}

func (l *Laser) drawMatrix(buf *raster.Buffer) {
	for _, m := range l.matrix {
		for _, c := range m.Cells {
			if !c.Enabled {
				continue
			}
			l.dot(buf, geom.Point{X: c.X, Y: c.Y}, c.Color, c.Intensity, MatrixDotSize)
		}
	}
}

func (l *Laser) drawChasers(buf *raster.Buffer) {
	for _, cs := range l.chasers {
		for _, c := range cs.Chasers {
			head := effects.ChaserPoint(cs.Centre, cs.Radius, c.Position)
			l.dot(buf, head, c.Color, c.Intensity, ChaserDotSize)
			for j, tp := range c.Trail {
				p := effects.ChaserPoint(cs.Centre, cs.Radius, tp.Position)
				l.dot(buf, p, c.Color, tp.Intensity, max(1, ChaserDotSize-2*j))
			}
		}
	}
}

func (l *Laser) drawBursts(buf *raster.Buffer) {
	for _, bs := range l.bursts {
		if !finite(bs.Origin) {
			continue
		}
		for _, b := range bs.Beams {
			if math.IsNaN(b.Angle) || math.IsNaN(b.Length) {
				continue
			}
			l.beam(buf, bs.Origin.Clamped(), b.Endpoint(bs.Origin), b.Color, b.Intensity, b.Width)
		}
	}
}

func (l *Laser) drawSpirals(buf *raster.Buffer) {
	for _, s := range l.spirals {
		for _, arm := range s.Arms {
			for _, p := range arm.Points {
				l.dot(buf, geom.Point{X: p.X, Y: p.Y}, arm.Color, p.Intensity, SpiralDotSize)
			}
		}
	}
}

// drawTunnels renders each ring as a circle of dots whose count grows with
// its pixel radius.
func (l *Laser) drawTunnels(buf *raster.Buffer) {
	for _, t := range l.tunnels {
		if !finite(t.Centre) {
			continue
		}
		cx, cy := t.Centre.Pixel(l.width, l.height)
		for _, r := range t.Rings {
			if !(r.Size > 0) || math.IsNaN(r.Rotation) {
				continue
			}
			radius := int(geom.Clamp01(r.Size) * float64(min(l.width, l.height)) / 2)
			if radius <= 0 {
				continue
			}
			ink := l.ink(r.Color, r.Intensity)
			if ink == (color.RGBA{}) {
				continue
			}
			n := max(8, radius/2)
			for i := 0; i < n; i++ {
				a := r.Rotation + float64(i)/float64(n)*2*math.Pi
				x := float64(cx) + float64(radius)*math.Cos(a)
				y := float64(cy) + float64(radius)*math.Sin(a)
				buf.Dot(int(x), int(y), TunnelDotSize, ink)
			}
		}
	}
}

func (l *Laser) beam(buf *raster.Buffer, start, end geom.Point, c palette.Color, intensity float64, width int) {
	if !finite(start) || !finite(end) {
		return
	}
	ink := l.ink(c, intensity)
	if ink == (color.RGBA{}) {
		return
	}
	x0, y0 := l.pixel(start)
	x1, y1 := l.pixel(end)
	buf.Beam(x0, y0, x1, y1, width, ink, l.glow)
}

func (l *Laser) dot(buf *raster.Buffer, p geom.Point, c palette.Color, intensity float64, size int) {
	if !finite(p) {
		return
	}
	ink := l.ink(c, intensity)
	if ink == (color.RGBA{}) {
		return
	}
	x, y := p.Pixel(l.width, l.height)
	buf.Dot(x, y, size, ink)
}

// ink converts a color and intensity into the 8-bit stamp value. Alpha also
// carries the layer's beam intensity.
func (l *Laser) ink(c palette.Color, intensity float64) color.RGBA {
	if !(intensity > 0) {
		return color.RGBA{}
	}
	intensity = geom.Clamp01(intensity)
	lit := c.Scale(intensity)
	return color.RGBA{
		R: channel(lit.R),
		G: channel(lit.G),
		B: channel(lit.B),
		A: channel(intensity * l.beamIntensity),
	}
}

// pixel maps a canvas point to a pixel inside the surface.
func (l *Laser) pixel(p geom.Point) (int, int) {
	x, y := p.Pixel(l.width, l.height)
	return min(max(x, 0), l.width-1), min(max(y, 0), l.height-1)
}

func channel(v float64) uint8 {
	return uint8(geom.Clamp01(v) * 255)
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
