package effects

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/palette"
)

// TunnelConfig configures a Tunnel.
type TunnelConfig struct {
	Rings   int
	Speed   float64
	Spacing float64
	Centre  geom.Point
	Rand    *rand.Rand
}

func DefaultTunnelConfig() TunnelConfig {
	return TunnelConfig{Rings: 8, Speed: 0.03, Spacing: 0.1, Centre: geom.Point{X: 0.5, Y: 0.5}}
}

// Tunnel moves concentric dotted rings towards the viewer; a ring that
// passes the front is recycled at the back with a fresh rotation.
type Tunnel struct {
	cfg   TunnelConfig
	rng   *rand.Rand
	rings []TunnelRing
	depth float64
}

func NewTunnel(cfg TunnelConfig) (*Tunnel, error) {
	if err := checkCount(KindTunnel, "rings", cfg.Rings); err != nil {
		return nil, err
	}
	if err := checkPositive(KindTunnel, "speed", cfg.Speed); err != nil {
		return nil, err
	}
	if err := checkPositive(KindTunnel, "spacing", cfg.Spacing); err != nil {
		return nil, err
	}
	if err := checkPoint(KindTunnel, "centre", cfg.Centre); err != nil {
		return nil, err
	}
	if d := float64(cfg.Rings-1) * cfg.Spacing; d > 1 {
		return nil, invalid(KindTunnel, "tunnel depth (rings-1)*spacing must be <= 1, got %v", d)
	}
	t := &Tunnel{
		cfg:   cfg,
		rng:   orDefaultRand(cfg.Rand),
		rings: make([]TunnelRing, cfg.Rings),
		depth: float64(cfg.Rings) * cfg.Spacing,
	}
	for i := range t.rings {
		t.rings[i] = TunnelRing{
			Size:     geom.Clamp01(0.1 + 0.08*float64(i)),
			Position: float64(i) * cfg.Spacing,
			Rotation: t.randomRotation(),
		}
	}
	return t, nil
}

func (t *Tunnel) randomRotation() float64 {
	return geom.NormalizeAngle((t.rng.Float64()*2 - 1) * math.Pi)
}

func (t *Tunnel) Kind() Kind { return KindTunnel }

func (t *Tunnel) Step(fr audio.Frame, p palette.Palette) {
	energy := fr.Energy()
	for i := range t.rings {
		r := &t.rings[i]
		r.Position -= t.cfg.Speed * (1 + energy)
		if r.Position < 0 {
			r.Position = float64(len(t.rings)-1) * t.cfg.Spacing
			r.Rotation = t.randomRotation()
		}
		near := 1 - r.Position/t.depth
		r.Intensity = geom.Clamp01((0.3 + 0.7*near) * (0.5 + 0.5*energy))
		r.Rotation = geom.NormalizeAngle(r.Rotation + 0.02*(1+energy))
		r.Color = p.At(i)
	}
}

func (t *Tunnel) Snapshot() Snapshot {
	return TunnelSnapshot{Centre: t.cfg.Centre, Rings: append([]TunnelRing(nil), t.rings...)}
}
