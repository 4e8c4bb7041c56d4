package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Run.
type PhaseObserver func(PhaseEvent)

// Front-end phase names, in the order Run enters them.
const (
	PhaseLoad       = "load"
	PhaseLex        = "lex"
	PhasePreprocess = "preprocess"
	PhaseParse      = "parse"
	PhaseElaborate  = "elaborate"
)

// Phases lists every phase a successful Run reports.
func Phases() []string {
	return []string{PhaseLoad, PhaseLex, PhasePreprocess, PhaseParse, PhaseElaborate}
}
