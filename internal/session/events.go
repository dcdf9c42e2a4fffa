package session

import (
	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/store"
)

// Event is something the session tells the outside world.
type Event interface {
	sessionEvent()
}

// Notified carries a learner-facing message.
type Notified struct {
	Notification notify.Notification
}

// StatusReported is emitted after every judged run or submit.
type StatusReported struct {
	SessionID string
	ProblemID string
	Status    problems.Status
	Kind      store.AttemptKind
	Passed    int
	Total     int
}

// NavigateBack asks the shell to leave the problem.
type NavigateBack struct{}

// LoginRequested asks the shell to sign the learner in. Action names what
// was attempted.
type LoginRequested struct {
	Action string
}

// StarToggled reports the new star state of a problem.
type StarToggled struct {
	ProblemID string
	Starred   bool
}

// NotesUpdated carries the learner's new notes for a problem.
type NotesUpdated struct {
	ProblemID string
	Notes     string
}

// CodeReplaced is emitted when the session replaces the buffer itself.
type CodeReplaced struct {
	Code string
}

func (Notified) sessionEvent()       {}
func (StatusReported) sessionEvent() {}
func (NavigateBack) sessionEvent()   {}
func (LoginRequested) sessionEvent() {}
func (StarToggled) sessionEvent()    {}
func (NotesUpdated) sessionEvent()   {}
func (CodeReplaced) sessionEvent()   {}

// Sink receives session events. Emit must not block.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }
