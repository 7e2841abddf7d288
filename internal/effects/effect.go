// Package effects implements the audio-reactive laser interpreters. Each
// interpreter owns a fixed set of elements created at construction, evolves
// them once per tick from an audio frame and a palette, and reports them as
// a typed snapshot for the laser layer to rasterize.
package effects

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// ErrInvalidConfig wraps every construction error.
var ErrInvalidConfig = errors.New("effects: invalid config")

// MaxBeamWidth is the widest beam, in pixels, a fan or scan may draw.
const MaxBeamWidth = 64

func invalid(kind Kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, kind, fmt.Sprintf(format, args...))
}

// Kind identifies an interpreter and the snapshot variant it produces.
type Kind int

const (
	KindFan Kind = iota
	KindScan
	KindMatrix
	KindChase
	KindBurst
	KindSpiral
	KindTunnel
)

var kindNames = [...]string{"fan", "scan", "matrix", "chase", "burst", "spiral", "tunnel"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Interpreter is one effect state machine.
type Interpreter interface {
	Kind() Kind
	// Step advances the animation by one tick.
	Step(f audio.Frame, p palette.Palette)
	// Snapshot returns a copy of the current elements.
	Snapshot() Snapshot
}

// Snapshot is the closed set of element collections an interpreter can
// report: FanSnapshot, ScanSnapshot, MatrixSnapshot, ChaseSnapshot,
// BurstSnapshot, SpiralSnapshot and TunnelSnapshot.
type Snapshot interface {
	Kind() Kind
	snapshot()
}

// NewRand returns the seeded generator interpreters draw from.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func orDefaultRand(r *rand.Rand) *rand.Rand {
	if r == nil {
		return NewRand(0)
	}
	return r
}

// Beam is a straight laser line leaving Origin at CurrentAngle. Angles are
// in radians, 0 pointing straight up, positive turning counter-clockwise.
type Beam struct {
	ID           int
	Origin       geom.Point
	BaseAngle    float64
	CurrentAngle float64
	Intensity    float64
	Color        palette.Color
	Length       float64
	Width        int
	Enabled      bool
}

// Endpoints returns the start and end of the beam clamped to the canvas.
func (b Beam) Endpoints() (start, end geom.Point) {
	return b.Origin.Clamped(), geom.Ray(b.Origin, b.CurrentAngle, b.Length).Clamped()
}

// MatrixCell is one stationary grid point.
type MatrixCell struct {
	Col, Row  int
	X, Y      float64
	Intensity float64
	Color     palette.Color
	Enabled   bool
}

// TrailPoint is a remembered chaser position.
type TrailPoint struct {
	Position  float64
	Intensity float64
}

// Chaser is a dot travelling around a closed loop. Trail is ordered most
// recent first.
type Chaser struct {
	ID        int
	Position  float64
	Intensity float64
	Color     palette.Color
	Trail     []TrailPoint
}

// BurstBeam is one ray of a radial burst. Angle follows screen polar
// convention: 0 points right and angles grow clockwise on screen.
type BurstBeam struct {
	Angle     float64
	Length    float64
	Intensity float64
	Color     palette.Color
	Width     int
}

// SpiralPoint is a sample along a spiral arm.
type SpiralPoint struct {
	X, Y      float64
	Intensity float64
}

// SpiralArm is one spiral with its regenerated points.
type SpiralArm struct {
	ID        int
	Direction int
	Color     palette.Color
	Points    []SpiralPoint
}

// TunnelRing is one ring of the tunnel effect.
type TunnelRing struct {
	Size      float64
	Position  float64
	Rotation  float64
	Intensity float64
	Color     palette.Color
}

type FanSnapshot struct {
	Beams []Beam
}

type ScanSnapshot struct {
	Beams []Beam
}

type MatrixSnapshot struct {
	Cols, Rows int
	PulsePhase float64
	Cells      []MatrixCell
}

type ChaseSnapshot struct {
	Centre  geom.Point
	Radius  float64
	Chasers []Chaser
}

type BurstSnapshot struct {
	Bursting        bool
	FramesRemaining int
	Origin          geom.Point
	Beams           []BurstBeam
}

type SpiralSnapshot struct {
	Arms []SpiralArm
}

type TunnelSnapshot struct {
	Centre geom.Point
	Rings  []TunnelRing
}

func (FanSnapshot) Kind() Kind    { return KindFan }
func (ScanSnapshot) Kind() Kind   { return KindScan }
func (MatrixSnapshot) Kind() Kind { return KindMatrix }
func (ChaseSnapshot) Kind() Kind  { return KindChase }
func (BurstSnapshot) Kind() Kind  { return KindBurst }
func (SpiralSnapshot) Kind() Kind { return KindSpiral }
func (TunnelSnapshot) Kind() Kind { return KindTunnel }

func (FanSnapshot) snapshot()    {}
func (ScanSnapshot) snapshot()   {}
func (MatrixSnapshot) snapshot() {}
func (ChaseSnapshot) snapshot()  {}
func (BurstSnapshot) snapshot()  {}
func (SpiralSnapshot) snapshot() {}
func (TunnelSnapshot) snapshot() {}

// ChaserPoint maps a loop position onto a circle of radius r around centre.
func ChaserPoint(centre geom.Point, r, position float64) geom.Point {
	return geom.Polar(centre, r, position*2*math.Pi)
}

// Endpoint returns where a burst beam ends when fired from origin.
func (b BurstBeam) Endpoint(origin geom.Point) geom.Point {
	return geom.Polar(origin, b.Length, b.Angle).Clamped()
}

func checkUnit(kind Kind, name string, v float64) error {
	if v < 0 || v > 1 || math.IsNaN(v) {
		return invalid(kind, "%s must be in [0,1], got %v", name, v)
	}
	return nil
}

func checkPoint(kind Kind, name string, p geom.Point) error {
	if err := checkUnit(kind, name+".x", p.X); err != nil {
		return err
	}
	return checkUnit(kind, name+".y", p.Y)
}

func checkPositive(kind Kind, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid(kind, "%s must be > 0, got %v", name, v)
	}
	return nil
}

func checkWidth(kind Kind, w int) error {
	if w < 1 || w > MaxBeamWidth {
		return invalid(kind, "width must be in [1,%d], got %d", MaxBeamWidth, w)
	}
	return nil
}

func checkCount(kind Kind, name string, n int) error {
	if n < 1 {
		return invalid(kind, "%s must be >= 1, got %d", name, n)
	}
	return nil
}
