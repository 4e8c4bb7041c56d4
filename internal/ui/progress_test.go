package ui

import (
	"strings"
	"testing"
	"time"

	"svdump/internal/driver"
)

func TestProgressFollowsPhases(t *testing.T) {
	events := make(chan driver.PhaseEvent)
	m := newProgressModel("2 files", driver.Phases(), events)

	m.Update(eventMsg{Name: driver.PhaseLoad, Status: driver.PhaseStart})
	if got := m.items[0].status; got != "running" {
		t.Fatalf("load status = %q", got)
	}
	m.Update(eventMsg{Name: driver.PhaseLoad, Status: driver.PhaseEnd, Elapsed: 3 * time.Millisecond})
	if m.items[0].status != "done" || m.items[0].elapsed != 3*time.Millisecond {
		t.Fatalf("load = %+v", m.items[0])
	}
	if f := m.fraction(); f != 1.0/5 {
		t.Errorf("fraction = %v", f)
	}
	if !strings.Contains(m.View(), "3.0ms") {
		t.Errorf("view lacks load timing:\n%s", m.View())
	}
}

func TestProgressUnknownPhaseIsAppended(t *testing.T) {
	m := newProgressModel("x", []string{"load"}, nil)
	m.Update(eventMsg{Name: "serialize", Status: driver.PhaseStart})
	if len(m.items) != 2 || m.items[1].name != "serialize" || m.items[1].status != "running" {
		t.Fatalf("items = %+v", m.items)
	}
}

func TestProgressQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.PhaseEvent)
	close(events)
	m := newProgressModel("1 file", driver.Phases(), events)

	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel should yield doneMsg")
	}
	_, cmd := m.Update(doneMsg{})
	if cmd == nil || !m.done {
		t.Fatal("doneMsg should finish the model")
	}
	if !strings.Contains(m.View(), "done: 1 file") {
		t.Errorf("view = %q", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("elaborate", 6); got != "ela..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("lex", 10); got != "lex" {
		t.Errorf("truncate = %q", got)
	}
}
