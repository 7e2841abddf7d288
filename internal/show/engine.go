// Package show runs the effect interpreters once per tick and renders their
// output through the laser and haze layers.
package show

import (
	"fmt"
	"log/slog"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/effects"
	"github.com/iburimskiy/laser-visualization/internal/layer"
	"github.com/iburimskiy/laser-visualization/internal/logging"
	"github.com/iburimskiy/laser-visualization/internal/palette"
	"github.com/iburimskiy/laser-visualization/internal/raster"
)

// strobeOn is the strobe level above which the laser layer blinks.
const strobeOn = 0.5

// Output is what one tick produced. A nil buffer means the layer had no
// content and can be skipped by the compositor.
type Output struct {
	Laser *raster.Buffer
	Haze  *raster.Buffer
}

type slot struct {
	interp  effects.Interpreter
	enabled bool
}

// Engine owns an ordered set of interpreters and the layers they draw into.
// Interpreters run in registration order, which keeps pixel output
// reproducible. An Engine is not safe for concurrent use.
type Engine struct {
	slots  []slot
	laser  *layer.Laser
	haze   *layer.Haze
	ticks  uint64
	faults uint64
}

// New builds an engine. haze may be nil.
func New(laser *layer.Laser, haze *layer.Haze, interps ...effects.Interpreter) *Engine {
	e := &Engine{laser: laser, haze: haze}
	for _, in := range interps {
		e.Add(in)
	}
	return e
}

// Add appends an interpreter after the existing ones.
func (e *Engine) Add(in effects.Interpreter) {
	if in == nil {
		return
	}
	e.slots = append(e.slots, slot{interp: in, enabled: true})
	logging.Logger().Debug("interpreter added", slog.String("kind", in.Kind().String()), slog.Int("index", len(e.slots)-1))
}

func (e *Engine) Laser() *layer.Laser { return e.laser }
func (e *Engine) Haze() *layer.Haze   { return e.haze }

// Ticks returns the number of completed ticks.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Faults returns how many interpreter steps have panicked so far.
func (e *Engine) Faults() uint64 { return e.faults }

// Interpreters returns the interpreters in run order.
func (e *Engine) Interpreters() []effects.Interpreter {
	out := make([]effects.Interpreter, len(e.slots))
	for i, s := range e.slots {
		out[i] = s.interp
	}
	return out
}

// SetEnabled switches every interpreter of kind k on or off. A disabled
// interpreter keeps its state but neither steps nor draws. It reports
// whether any interpreter of that kind exists.
func (e *Engine) SetEnabled(k effects.Kind, on bool) bool {
	found := false
	for i := range e.slots {
		if e.slots[i].interp.Kind() == k {
			e.slots[i].enabled = on
			found = true
		}
	}
	return found
}

// Enabled reports whether at least one interpreter of kind k is enabled.
func (e *Engine) Enabled(k effects.Kind) bool {
	for _, s := range e.slots {
		if s.interp.Kind() == k && s.enabled {
			return true
		}
	}
	return false
}

// Toggle flips kind k and returns its new state.
func (e *Engine) Toggle(k effects.Kind) bool {
	on := !e.Enabled(k)
	return e.SetEnabled(k, on) && on
}

// Tick advances every enabled interpreter with fr and p, then renders both
// layers. A pulse signal lifts the energy the interpreters see to at least
// its own level; a strobe signal blanks the laser layer on every other tick.
func (e *Engine) Tick(fr audio.Frame, p palette.Palette) Output {
	if pulse := fr.Pulse(); pulse > fr.Energy() {
		fr = fr.With(audio.Energy, pulse)
	}

	var out Output
	if e.laser != nil {
		e.laser.Reset()
	}
	for i := range e.slots {
		if !e.slots[i].enabled {
			continue
		}
		if err := e.step(e.slots[i].interp, fr, p); err != nil {
			e.faults++
			logging.Logger().Warn("interpreter skipped",
				slog.String("kind", e.slots[i].interp.Kind().String()),
				slog.Int("index", i),
				slog.Uint64("tick", e.ticks),
				slog.Any("err", err))
		}
	}
	if e.laser != nil {
		if buf, ok := e.laser.Render(); ok && !(fr.Strobe() > strobeOn && e.ticks%2 == 1) {
			out.Laser = buf
		}
	}
	if e.haze != nil {
		if buf, ok := e.haze.Render(fr); ok {
			out.Haze = buf
		}
	}
	e.ticks++
	return out
}

// step runs one interpreter and registers its snapshot. A panic is turned
// into an error so the other interpreters still render.
func (e *Engine) step(in effects.Interpreter, fr audio.Frame, p palette.Palette) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v panicked: %v", in.Kind(), r)
		}
	}()
	in.Step(fr, p)
	snap := in.Snapshot()
	if e.laser != nil {
		e.laser.Register(snap)
	}
	return nil
}
