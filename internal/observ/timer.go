// Package observ measures front-end phases.
package observ

import (
	"time"
)

// Phase is one measured step of a compilation.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	done  bool
}

// Timer records phases in the order they start. It is not safe for
// concurrent use; the driver opens phases from one goroutine.
type Timer struct {
	phases []Phase
	now    func() time.Time
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8), now: time.Now} }

// Handle closes the phase it was returned for.
type Handle struct {
	t   *Timer
	idx int
}

// Start opens a phase.
func (t *Timer) Start(name string) Handle {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return Handle{t: t, idx: len(t.phases) - 1}
}

// Stop closes the phase and returns its duration. Stopping twice keeps
// the first measurement.
func (h Handle) Stop(note string) time.Duration {
	if h.t == nil || h.idx < 0 || h.idx >= len(h.t.phases) {
		return 0
	}
	p := &h.t.phases[h.idx]
	if !p.done {
		p.Dur = h.t.now().Sub(p.Start)
		p.Note = note
		p.done = true
	}
	return p.Dur
}

// Phases returns a copy of the recorded phases.
func (t *Timer) Phases() []Phase {
	out := make([]Phase, len(t.phases))
	copy(out, t.phases)
	return out
}

// Total sums the durations of closed phases.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// Slowest returns the longest closed phase.
func (t *Timer) Slowest() (Phase, bool) {
	best := -1
	for i, p := range t.phases {
		if p.done && (best < 0 || p.Dur > t.phases[best].Dur) {
			best = i
		}
	}
	if best < 0 {
		return Phase{}, false
	}
	return t.phases[best], true
}

// Millis converts d to fractional milliseconds for log fields.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
