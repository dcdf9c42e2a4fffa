package session

import "github.com/abhisek/codebench/internal/judge"

// Phase is the run/submit state of a session.
type Phase int

const (
	PhaseIdle       Phase = iota // Ready for a run or submit
	PhaseRunning                 // Judging a run
	PhaseSubmitting              // Judging a submission
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// State is a snapshot of a problem session.
type State struct {
	// Code is the current editor buffer.
	Code string

	// Results are the results of the last completed run or submit. They are
	// cleared when a run or submit starts.
	Results []judge.TestResult

	// Phase is Idle unless a judge call is in flight.
	Phase Phase

	// IsFullscreen mirrors the presentation platform.
	IsFullscreen bool
}

// Busy reports whether a run or submit is in flight.
func (s State) Busy() bool {
	return s.Phase != PhaseIdle
}
