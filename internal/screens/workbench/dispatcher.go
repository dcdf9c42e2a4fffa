package workbench

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/session"
	"github.com/abhisek/codebench/internal/store"
)

// ProgressStore persists per-problem progress.
type ProgressStore interface {
	ReportStatus(ctx context.Context, problemID string, status store.Status) (store.Status, error)
	SetStarred(ctx context.Context, problemID string, starred bool) error
	UpdateNotes(ctx context.Context, problemID string, notes *string) error
}

// AttemptRecorder appends run and submit outcomes to the history.
type AttemptRecorder interface {
	AppendAttempt(ctx context.Context, data store.AttemptEventData) error
}

const writeTimeout = 5 * time.Second

// Dispatcher is the session's event sink. Persistence happens inline and
// failures are only logged; everything the screen must react to is posted
// to the event loop.
type Dispatcher struct {
	progress ProgressStore
	attempts AttemptRecorder
	post     func(any)
	logger   *slog.Logger
}

var _ session.Sink = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher. Nil stores are skipped.
func NewDispatcher(progress ProgressStore, attempts AttemptRecorder, post func(any), logger *slog.Logger) *Dispatcher {
	if post == nil {
		post = func(any) {}
	}
	return &Dispatcher{
		progress: progress,
		attempts: attempts,
		post:     post,
		logger:   logging.OrDiscard(logger),
	}
}

// Emit routes one session event.
func (d *Dispatcher) Emit(e session.Event) {
	switch e := e.(type) {
	case session.Notified:
		d.post(notifiedMsg{Notification: e.Notification})
	case session.StatusReported:
		d.recordStatus(e)
		d.post(statusRecordedMsg{Status: e})
	case session.StarToggled:
		d.write("set starred", e.ProblemID, func(ctx context.Context) error {
			return d.progress.SetStarred(ctx, e.ProblemID, e.Starred)
		})
		d.post(sessionEventMsg{Event: e})
	case session.NotesUpdated:
		notes := e.Notes
		d.write("update notes", e.ProblemID, func(ctx context.Context) error {
			if notes == "" {
				return d.progress.UpdateNotes(ctx, e.ProblemID, nil)
			}
			return d.progress.UpdateNotes(ctx, e.ProblemID, &notes)
		})
		d.post(sessionEventMsg{Event: e})
	default:
		d.post(sessionEventMsg{Event: e})
	}
}

func (d *Dispatcher) recordStatus(e session.StatusReported) {
	d.write("report status", e.ProblemID, func(ctx context.Context) error {
		_, err := d.progress.ReportStatus(ctx, e.ProblemID, e.Status)
		return err
	})
	if d.attempts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	err := d.attempts.AppendAttempt(ctx, store.AttemptEventData{
		SessionID: e.SessionID,
		ProblemID: e.ProblemID,
		Kind:      e.Kind,
		Status:    e.Status,
		Passed:    e.Passed,
		Total:     e.Total,
	})
	if err != nil {
		d.logger.Error("record attempt", "problem", e.ProblemID, "err", err)
	}
}

func (d *Dispatcher) write(op, problemID string, fn func(ctx context.Context) error) {
	if d.progress == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		d.logger.Error(op, "problem", problemID, "err", err)
	}
}
