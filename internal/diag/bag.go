package diag

import (
	"fortio.org/safecast"
)

// Bag is an ordered, bounded diagnostic log.
type Bag struct {
	items   []Diagnostic
	max     uint16
	dropped int
}

// NewBag creates a bag that keeps at most max diagnostics; 0 means unbounded.
// Error and fatal diagnostics are never dropped so that success is always
// computed from the full log.
func NewBag(max int) *Bag {
	limit, err := safecast.Conv[uint16](max)
	if err != nil {
		limit = ^uint16(0)
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(int(limit), 64)),
		max:   limit,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не сохранена.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max != 0 && len(b.items) >= int(b.max) && !d.Severity.IsError() {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Dropped returns how many notes/warnings were discarded by the limit.
func (b *Bag) Dropped() int {
	return b.dropped
}

// HasErrors reports whether any diagnostic is an error or fatal.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity.IsError() {
			return true
		}
	}
	return false
}

// HasFatal reports whether any diagnostic is fatal.
func (b *Bag) HasFatal() bool {
	for i := range b.items {
		if b.items[i].Severity == SevFatal {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with exactly the given severity.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic of other after the current ones, keeping
// other's order. The limit is raised when needed so nothing is lost.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max != 0 && newTotal > int(b.max) {
		if limit, err := safecast.Conv[uint16](newTotal); err == nil {
			b.max = limit
		} else {
			b.max = 0
		}
	}
	b.items = append(b.items, other.items...)
	b.dropped += other.dropped
}

// Extract removes the diagnostics match accepts and returns them in a new
// unbounded bag. Both bags keep emission order.
func (b *Bag) Extract(match func(*Diagnostic) bool) *Bag {
	out := NewBag(0)
	kept := b.items[:0]
	for i := range b.items {
		if match(&b.items[i]) {
			out.items = append(out.items, b.items[i])
		} else {
			kept = append(kept, b.items[i])
		}
	}
	clear(b.items[len(kept):])
	b.items = kept
	return out
}
