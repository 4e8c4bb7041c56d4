package driver

import (
	"svdump/internal/observ"
)

// phases wraps an observ.Timer and forwards boundaries to the observer.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
}

func newPhases(observer PhaseObserver) *phases {
	return &phases{timer: observ.NewTimer(), observer: observer}
}

// begin starts the named phase; the returned func ends it with note.
func (p *phases) begin(name string) func(note string) {
	h := p.timer.Start(name)
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return func(note string) {
		elapsed := h.Stop(note)
		if p.observer != nil {
			p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: elapsed})
		}
	}
}

func (p *phases) log(opts *Options) {
	for _, ph := range p.timer.Phases() {
		opts.debug("phase", "name", ph.Name, "ms", observ.Millis(ph.Dur), "note", ph.Note)
	}
	keyvals := []any{"total_ms", observ.Millis(p.timer.Total())}
	if slow, ok := p.timer.Slowest(); ok {
		keyvals = append(keyvals, "slowest", slow.Name)
	}
	opts.debug("front end done", keyvals...)
}
