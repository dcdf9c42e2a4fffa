// Package session implements the run/submit workflow of one problem: the
// phase guard, judge orchestration, status reporting and the login gate.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/store"
)

var (
	// ErrBusy is returned when a run or submit is already in flight.
	ErrBusy = errors.New("session busy")
	// ErrDisposed is returned once the session has been torn down.
	ErrDisposed = errors.New("session disposed")
	// ErrLoginRequired is returned when a gated action is attempted signed out.
	ErrLoginRequired = errors.New("login required")
)

// Notification texts.
const (
	msgAllPassed    = "All tests passed!"
	msgAccepted     = "Accepted! All tests passed."
	msgSubmitFailed = "Pass all tests before submitting."
	msgJudgeFailed  = "Could not run your code: %v"
	msgCodeReset    = "Code reset to the starter template"
	resetPrompt     = "Reset to the starter code? Your changes will be lost."
)

// Confirmer asks the learner to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// FullscreenState reports the presentation state.
type FullscreenState interface {
	IsFullscreen() bool
}

// Options configures a Controller.
type Options struct {
	Problem    problems.Problem
	Auth       auth.Capability
	Sink       Sink
	Confirmer  Confirmer
	Fullscreen FullscreenState
	Logger     *slog.Logger
	SessionID  string // generated when empty
}

// Controller drives one problem session. It is safe for concurrent use; judge
// calls happen outside the lock.
type Controller struct {
	id         string
	problem    problems.Problem
	auth       auth.Capability
	sink       Sink
	confirmer  Confirmer
	fullscreen FullscreenState
	logger     *slog.Logger

	mu       sync.Mutex
	code     string
	results  []judge.TestResult
	phase    Phase
	starred  bool
	disposed bool
}

// NewController starts a session on opts.Problem with its starter code.
func NewController(opts Options) *Controller {
	c := &Controller{
		id:         opts.SessionID,
		problem:    opts.Problem,
		auth:       opts.Auth,
		sink:       opts.Sink,
		confirmer:  opts.Confirmer,
		fullscreen: opts.Fullscreen,
		logger:     logging.OrDiscard(opts.Logger),
		code:       opts.Problem.StarterCode,
		starred:    opts.Problem.IsStarred,
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.auth == nil {
		c.auth = auth.Static(false)
	}
	if c.sink == nil {
		c.sink = SinkFunc(func(Event) {})
	}
	c.logger = c.logger.With("session", c.id, "problem", c.problem.ID)
	return c
}

// ID returns the session ID.
func (c *Controller) ID() string { return c.id }

// Problem returns the problem being solved.
func (c *Controller) Problem() problems.Problem { return c.problem }

// Code returns the current buffer.
func (c *Controller) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// SetCode replaces the buffer. It is the editor's write path.
func (c *Controller) SetCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.code = code
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	s := State{
		Code:    c.code,
		Results: append([]judge.TestResult(nil), c.results...),
		Phase:   c.phase,
	}
	c.mu.Unlock()
	if c.fullscreen != nil {
		s.IsFullscreen = c.fullscreen.IsFullscreen()
	}
	return s
}

// Run judges the buffer and reports the problem as attempted.
func (c *Controller) Run(ctx context.Context) error {
	code, err := c.begin(PhaseRunning)
	if err != nil {
		return err
	}

	results, err := c.callJudge(ctx, code)
	if err := c.finish(results, err); err != nil {
		return err
	}

	passed, total := judge.Count(results)
	c.emit(c.status(problems.StatusAttempted, store.AttemptRun, passed, total))
	if judge.AllPassed(results) {
		c.notify(notify.Success(msgAllPassed))
	} else {
		c.notify(notify.Plain(fmt.Sprintf("%d/%d tests passed. Keep going!", passed, total)))
	}
	return nil
}

// Submit judges the buffer for a verdict. Signed-out learners are sent to
// login without judging.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	switch {
	case c.disposed:
		c.mu.Unlock()
		return ErrDisposed
	case c.phase != PhaseIdle:
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.auth.Authenticated() {
		c.mu.Unlock()
		c.emit(LoginRequested{Action: "submit"})
		return ErrLoginRequired
	}
	c.phase = PhaseSubmitting
	c.results = nil
	code := c.code
	c.mu.Unlock()

	results, err := c.callJudge(ctx, code)
	if err := c.finish(results, err); err != nil {
		return err
	}

	passed, total := judge.Count(results)
	if judge.AllPassed(results) {
		c.emit(c.status(problems.StatusSolved, store.AttemptSubmit, passed, total))
		c.notify(notify.Success(msgAccepted))
		c.emit(NavigateBack{})
		return nil
	}
	c.emit(c.status(problems.StatusAttempted, store.AttemptSubmit, passed, total))
	c.notify(notify.Error(msgSubmitFailed))
	return nil
}

// ResetCode restores the starter code after the learner confirms. It reports
// whether the buffer was replaced.
func (c *Controller) ResetCode(ctx context.Context) (bool, error) {
	if c.confirmer == nil || !c.confirmer.Confirm(ctx, resetPrompt) {
		return false, nil
	}

	c.mu.Lock()
	switch {
	case c.disposed:
		c.mu.Unlock()
		return false, ErrDisposed
	case c.phase != PhaseIdle:
		c.mu.Unlock()
		return false, ErrBusy
	}
	c.code = c.problem.StarterCode
	c.results = nil
	code := c.code
	c.mu.Unlock()

	c.emit(CodeReplaced{Code: code})
	c.notify(notify.Info(msgCodeReset))
	return true, nil
}

// ToggleStar flips the problem's star for signed-in learners.
func (c *Controller) ToggleStar(ctx context.Context) error {
	if !c.auth.Authenticated() {
		c.emit(LoginRequested{Action: "star"})
		return ErrLoginRequired
	}
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.starred = !c.starred
	starred := c.starred
	c.mu.Unlock()

	c.emit(StarToggled{ProblemID: c.problem.ID, Starred: starred})
	return nil
}

// Starred reports the session's view of the star.
func (c *Controller) Starred() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starred
}

// UpdateNotes publishes the learner's notes for signed-in learners.
func (c *Controller) UpdateNotes(ctx context.Context, notes string) error {
	if !c.auth.Authenticated() {
		c.emit(LoginRequested{Action: "notes"})
		return ErrLoginRequired
	}
	c.mu.Lock()
	disposed := c.disposed
	c.mu.Unlock()
	if disposed {
		return ErrDisposed
	}
	c.emit(NotesUpdated{ProblemID: c.problem.ID, Notes: notes})
	return nil
}

// Dispose tears the session down. A judge call still in flight finishes but
// its results are dropped.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

// begin takes the phase guard and clears results.
func (c *Controller) begin(phase Phase) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.disposed:
		return "", ErrDisposed
	case c.phase != PhaseIdle:
		return "", ErrBusy
	}
	c.phase = phase
	c.results = nil
	return c.code, nil
}

// finish stores results and releases the phase guard in one critical
// section. Judge failures leave results empty and are reported to the
// learner.
func (c *Controller) finish(results []judge.TestResult, judgeErr error) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.logger.Debug("dropping judge result for disposed session")
		return ErrDisposed
	}
	if judgeErr != nil {
		c.results = nil
	} else {
		c.results = results
	}
	c.phase = PhaseIdle
	c.mu.Unlock()

	if judgeErr != nil {
		c.logger.Error("judge failed", "err", judgeErr)
		c.notify(notify.Error(fmt.Sprintf(msgJudgeFailed, judgeErr)))
		return fmt.Errorf("judge: %w", judgeErr)
	}
	return nil
}

// callJudge calls the problem's judge, turning a panic into an error.
func (c *Controller) callJudge(ctx context.Context, code string) (results []judge.TestResult, err error) {
	if c.problem.Judge == nil {
		return nil, errors.New("problem has no judge")
	}
	defer func() {
		if r := recover(); r != nil {
			results, err = nil, fmt.Errorf("judge panicked: %v", r)
		}
	}()
	return c.problem.Judge.Judge(ctx, code)
}

func (c *Controller) status(s problems.Status, kind store.AttemptKind, passed, total int) StatusReported {
	return StatusReported{
		SessionID: c.id,
		ProblemID: c.problem.ID,
		Status:    s,
		Kind:      kind,
		Passed:    passed,
		Total:     total,
	}
}

func (c *Controller) notify(n notify.Notification) {
	c.emit(Notified{Notification: n})
}

func (c *Controller) emit(e Event) {
	c.sink.Emit(e)
}
