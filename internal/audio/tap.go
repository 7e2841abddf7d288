package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap wraps a beep.Streamer and keeps the most recent samples in a ring so
// the analyzer can look at what is currently playing. Stream runs on the
// speaker goroutine; Recent is called from the render loop.
type Tap struct {
	Source beep.Streamer

	mu      sync.RWMutex
	ring    [][2]float64
	next    int
	written uint64
}

// NewTap returns a tap that remembers the last size samples.
func NewTap(src beep.Streamer, size int) *Tap {
	if size < 1 {
		size = 1
	}
	return &Tap{Source: src, ring: make([][2]float64, size)}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	if n <= 0 {
		return n, ok
	}
	t.mu.Lock()
	for i := 0; i < n; i++ {
		t.ring[t.next] = samples[i]
		t.next = (t.next + 1) % len(t.ring)
	}
	t.written += uint64(n)
	t.mu.Unlock()
	return n, ok
}

// Err implements beep.Streamer.
func (t *Tap) Err() error { return t.Source.Err() }

// Recent returns up to n of the latest samples, oldest first. Fewer are
// returned while the ring has not filled yet.
func (t *Tap) Recent(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.ring) {
		n = len(t.ring)
	}
	if uint64(n) > t.written {
		n = int(t.written)
	}
	out := make([][2]float64, n)
	start := t.next - n
	if start < 0 {
		start += len(t.ring)
	}
	for i := range out {
		out[i] = t.ring[(start+i)%len(t.ring)]
	}
	return out
}

// Mono downmixes stereo samples.
func Mono(samples [][2]float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = (s[0] + s[1]) * 0.5
	}
	return out
}
