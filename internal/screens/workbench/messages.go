package workbench

import (
	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/session"
)

// inboxMsg carries a message posted from outside the event loop. owner
// identifies the workbench it belongs to.
type inboxMsg struct {
	owner *inbox
	msg   any
}

// notifiedMsg shows a toast.
type notifiedMsg struct {
	Notification notify.Notification
}

// sessionEventMsg forwards a session event that needs the event loop.
type sessionEventMsg struct {
	Event session.Event
}

// statusRecordedMsg is posted once a reported status has been stored.
type statusRecordedMsg struct {
	Status session.StatusReported
}

// confirmRequestMsg opens the confirmation dialog. The answer goes to reply.
type confirmRequestMsg struct {
	Prompt string
	Reply  chan<- bool
}

// fullscreenChangedMsg reports that the platform fullscreen state moved. The
// handler reads the current state from the synchronizer.
type fullscreenChangedMsg struct{}

// actionDoneMsg is sent when a background action finishes.
type actionDoneMsg struct {
	Action string
	Err    error
}
