package game

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/laser-visualization/internal/audio"
	"github.com/iburimskiy/laser-visualization/internal/geom"
	"github.com/iburimskiy/laser-visualization/internal/logging"
)

// seekCooldown rate-limits seeks while the progress bar is dragged.
const seekCooldown = 50 * time.Millisecond

// Player plays one audio file at a time through the speaker and taps what is
// played for analysis.
type Player struct {
	ringSize int

	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *audio.Tap

	initDone    bool
	speakerRate beep.SampleRate
	paused      bool
	duration    time.Duration
	position    time.Duration
	lastSeek    time.Time

	// ended is set on the speaker goroutine when playback reaches the end.
	ended atomic.Bool
}

func NewPlayer(ringSize int) *Player {
	return &Player{ringSize: ringSize}
}

func (p *Player) Loaded() bool                { return p.streamer != nil }
func (p *Player) Paused() bool                { return p.paused }
func (p *Player) Duration() time.Duration     { return p.duration }
func (p *Player) Position() time.Duration     { return p.position }
func (p *Player) SampleRate() beep.SampleRate { return p.format.SampleRate }

// Progress returns the played fraction in [0,1].
func (p *Player) Progress() float64 {
	if p.duration <= 0 {
		return 0
	}
	return geom.Clamp01(float64(p.position) / float64(p.duration))
}

// Recent returns up to n of the most recently played samples.
func (p *Player) Recent(n int) [][2]float64 {
	if p.tap == nil || p.paused {
		return nil
	}
	return p.tap.Recent(n)
}

// OpenDialog asks for a file and plays it. Cancelling the dialog is not an
// error.
func (p *Player) OpenDialog() error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: audio.Patterns(),
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return p.Load(filename)
}

// Load stops any current playback and starts playing path.
func (p *Player) Load(path string) error {
	streamer, format, err := audio.Open(path)
	if err != nil {
		logging.Logger().Error("load failed", slog.String("path", path), slog.Any("err", err))
		return err
	}

	// Prepare audio chain: streamer -> tap -> ctrl
	tap := audio.NewTap(streamer, p.ringSize)
	ctrl := &beep.Ctrl{Streamer: tap}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return err
		}
		p.initDone = true
	case p.speakerRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			return err
		}
	default:
		speaker.Clear()
	}
	p.closeStreamer()

	p.speakerRate = format.SampleRate
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = tap
	p.paused = false
	p.duration = format.SampleRate.D(streamer.Len())
	p.position = 0
	p.ended.Store(false)

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		p.ended.Store(true)
	})))

	logging.Logger().Info("audio loaded",
		slog.String("file", filepath.Base(path)),
		slog.Int("sample_rate", int(format.SampleRate)),
		slog.Duration("duration", p.duration))
	return nil
}

func (p *Player) TogglePause() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Seek jumps to the fraction pos of the track.
func (p *Player) Seek(pos float64) error {
	if p.streamer == nil {
		return nil
	}
	if time.Since(p.lastSeek) < seekCooldown {
		return nil
	}
	n := int(geom.Clamp01(pos) * float64(p.streamer.Len()))
	if n >= p.streamer.Len() {
		n = p.streamer.Len() - 1
	}
	if n < 0 {
		n = 0
	}

	speaker.Lock()
	err := p.streamer.Seek(n)
	speaker.Unlock()
	if err != nil {
		return err
	}
	p.position = p.format.SampleRate.D(n)
	p.lastSeek = time.Now()
	return nil
}

// Update refreshes the playback position and releases a finished track.
func (p *Player) Update() {
	if p.ended.Load() {
		p.ended.Store(false)
		logging.Logger().Debug("playback finished")
		p.closeStreamer()
		return
	}
	if p.streamer == nil || p.paused {
		return
	}
	speaker.Lock()
	n := p.streamer.Position()
	speaker.Unlock()
	p.position = min(p.format.SampleRate.D(n), p.duration)
}

// Close stops playback and releases the current file.
func (p *Player) Close() {
	if p.initDone {
		speaker.Clear()
	}
	p.closeStreamer()
}

func (p *Player) closeStreamer() {
	if p.streamer != nil {
		if err := p.streamer.Close(); err != nil {
			logging.Logger().Debug("close streamer", slog.Any("err", err))
		}
	}
	p.streamer = nil
	p.ctrl = nil
	p.tap = nil
	p.duration = 0
	p.position = 0
	p.paused = false
}
