package game

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/laser-visualization/internal/config"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/logging"
)

type action int

const (
	actNone action = iota
	actTogglePause
	actQuit
	actToggleGlow
	actBrighter
	actDimmer
	actNextPalette
	actToggleHaze
	actToggleEffect
)

type binding struct {
	act  action
	kind effects.Kind
}

// keyBindings are edge-triggered: they fire once per key press.
var keyBindings = map[ebiten.Key]binding{
	ebiten.KeySpace:  {act: actTogglePause},
	ebiten.KeyEscape: {act: actQuit},
	ebiten.KeyQ:      {act: actQuit},
	ebiten.KeyG:      {act: actToggleGlow},
	ebiten.KeyUp:     {act: actBrighter},
	ebiten.KeyDown:   {act: actDimmer},
	ebiten.KeyC:      {act: actNextPalette},
	ebiten.KeyH:      {act: actToggleHaze},
	ebiten.KeyDigit1: {act: actToggleEffect, kind: effects.KindFan},
	ebiten.KeyDigit2: {act: actToggleEffect, kind: effects.KindScan},
	ebiten.KeyDigit3: {act: actToggleEffect, kind: effects.KindMatrix},
	ebiten.KeyDigit4: {act: actToggleEffect, kind: effects.KindChase},
	ebiten.KeyDigit5: {act: actToggleEffect, kind: effects.KindBurst},
	ebiten.KeyDigit6: {act: actToggleEffect, kind: effects.KindSpiral},
	ebiten.KeyDigit7: {act: actToggleEffect, kind: effects.KindTunnel},
}

// Held keys drive the manual analyzer signals while pressed.
const (
	strobeKey = ebiten.KeyS
	pulseKey  = ebiten.KeyP
)

// apply performs one operator action. It returns ebiten.Termination for quit.
func (g *Game) apply(b binding) error {
	log := logging.Logger()
	laser := g.engine.Laser()

	switch b.act {
	case actTogglePause:
		g.player.TogglePause()
	case actQuit:
		return ebiten.Termination
	case actToggleGlow:
		laser.SetGlow(!laser.Glow())
	case actBrighter:
		laser.SetBeamIntensity(laser.BeamIntensity() + config.IntensityStep)
	case actDimmer:
		laser.SetBeamIntensity(laser.BeamIntensity() - config.IntensityStep)
	case actNextPalette:
		g.palettes.Next()
		log.Info("palette changed", slog.Int("index", g.palettes.Index()))
	case actToggleHaze:
		if h := g.engine.Haze(); h != nil {
			h.SetEnabled(!h.Enabled())
		}
	case actToggleEffect:
		on := g.engine.Toggle(b.kind)
		log.Debug("effect toggled", slog.String("kind", b.kind.String()), slog.Bool("enabled", on))
	}
	return nil
}
