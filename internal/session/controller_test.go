package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/store"
)

// recorder is a Sink that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) statuses() []StatusReported {
	var out []StatusReported
	for _, e := range r.all() {
		if s, ok := e.(StatusReported); ok {
			out = append(out, s)
		}
	}
	return out
}

func (r *recorder) notifications() []notify.Notification {
	var out []notify.Notification
	for _, e := range r.all() {
		if n, ok := e.(Notified); ok {
			out = append(out, n.Notification)
		}
	}
	return out
}

func (r *recorder) count(match func(Event) bool) int {
	n := 0
	for _, e := range r.all() {
		if match(e) {
			n++
		}
	}
	return n
}

func isNavigateBack(e Event) bool   { _, ok := e.(NavigateBack); return ok }
func isLoginRequested(e Event) bool { _, ok := e.(LoginRequested); return ok }

// countingJudge returns fixed results and counts calls.
type countingJudge struct {
	mu      sync.Mutex
	results []judge.TestResult
	err     error
	calls   int
	codes   []string
}

func (j *countingJudge) Judge(_ context.Context, code string) ([]judge.TestResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls++
	j.codes = append(j.codes, code)
	return j.results, j.err
}

// blockingJudge waits until released.
type blockingJudge struct {
	started chan struct{}
	release chan struct{}
	results []judge.TestResult
}

func newBlockingJudge(results []judge.TestResult) *blockingJudge {
	return &blockingJudge{started: make(chan struct{}, 1), release: make(chan struct{}), results: results}
}

func (j *blockingJudge) Judge(ctx context.Context, _ string) ([]judge.TestResult, error) {
	j.started <- struct{}{}
	<-j.release
	return j.results, nil
}

func pass(n int) []judge.TestResult {
	out := make([]judge.TestResult, n)
	for i := range out {
		out[i].Passed = true
	}
	return out
}

func newController(j judge.Judge, authed bool) (*Controller, *recorder) {
	rec := &recorder{}
	c := NewController(Options{
		Problem: problems.Problem{
			ID:          "two-sum",
			StarterCode: "starter",
			Judge:       j,
		},
		Auth:      auth.Static(authed),
		Sink:      rec,
		SessionID: "sess-1",
	})
	return c, rec
}

func TestNewControllerStartsFromStarterCode(t *testing.T) {
	c, _ := newController(&countingJudge{}, false)
	st := c.State()
	assert.Equal(t, "starter", st.Code)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Empty(t, st.Results)
	assert.Equal(t, "sess-1", c.ID())

	generated := NewController(Options{})
	assert.NotEmpty(t, generated.ID())
}

func TestRunAllPassed(t *testing.T) {
	j := &countingJudge{results: pass(2)}
	c, rec := newController(j, false)
	c.SetCode("my code")

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, []string{"my code"}, j.codes)
	st := c.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Len(t, st.Results, 2)

	require.Len(t, rec.statuses(), 1)
	s := rec.statuses()[0]
	assert.Equal(t, problems.StatusAttempted, s.Status)
	assert.Equal(t, store.AttemptRun, s.Kind)
	assert.Equal(t, "two-sum", s.ProblemID)
	assert.Equal(t, "sess-1", s.SessionID)
	assert.Equal(t, 2, s.Passed)

	ns := rec.notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, notify.Success("All tests passed!"), ns[0])
}

func TestRunPartialReportsCount(t *testing.T) {
	j := &countingJudge{results: []judge.TestResult{{Passed: true}, {Passed: false}}}
	c, rec := newController(j, false)

	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, problems.StatusAttempted, rec.statuses()[0].Status)
	ns := rec.notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, notify.LevelPlain, ns[0].Level)
	assert.Equal(t, "1/2 tests passed. Keep going!", ns[0].Message)
}

func TestRunEmptyResultsPass(t *testing.T) {
	c, rec := newController(&countingJudge{results: []judge.TestResult{}}, false)
	require.NoError(t, c.Run(context.Background()))

	require.Len(t, rec.statuses(), 1)
	assert.Equal(t, problems.StatusAttempted, rec.statuses()[0].Status)
	ns := rec.notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, notify.Success("All tests passed!"), ns[0])
}

func TestSubmitEmptyResultsSolves(t *testing.T) {
	c, rec := newController(&countingJudge{results: []judge.TestResult{}}, true)
	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, rec.statuses(), 1)
	s := rec.statuses()[0]
	assert.Equal(t, problems.StatusSolved, s.Status)
	assert.Equal(t, store.AttemptSubmit, s.Kind)
	assert.Equal(t, 1, rec.count(isNavigateBack))
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestRunWhileBusyIsRejected(t *testing.T) {
	j := newBlockingJudge(pass(1))
	c, rec := newController(j, true)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	<-j.started

	st := c.State()
	assert.Equal(t, PhaseRunning, st.Phase)
	assert.Empty(t, st.Results, "results are cleared when a run starts")

	assert.ErrorIs(t, c.Run(context.Background()), ErrBusy)
	assert.ErrorIs(t, c.Submit(context.Background()), ErrBusy)
	_, err := c.ResetCode(context.Background())
	assert.NoError(t, err, "no confirmer means no reset attempt")

	close(j.release)
	require.NoError(t, <-done)

	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Len(t, rec.statuses(), 1)
}

func TestResultsClearedAtStartOfEachRun(t *testing.T) {
	c, _ := newController(&countingJudge{results: []judge.TestResult{{Passed: false}}}, false)
	require.NoError(t, c.Run(context.Background()))
	require.Len(t, c.State().Results, 1)

	j := newBlockingJudge(pass(3))
	c.problem.Judge = j
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	<-j.started
	assert.Empty(t, c.State().Results)
	close(j.release)
	require.NoError(t, <-done)
	assert.Len(t, c.State().Results, 3)
}

func TestSubmitUnauthenticatedRequestsLoginOnly(t *testing.T) {
	j := &countingJudge{results: []judge.TestResult{{Passed: false}}}
	c, rec := newController(j, false)
	require.NoError(t, c.Run(context.Background()))
	before := c.State()
	eventsBefore := len(rec.all())

	err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrLoginRequired)

	assert.Equal(t, 1, j.calls, "judge must not be called")
	after := c.State()
	assert.Equal(t, before, after)
	assert.Len(t, rec.all(), eventsBefore+1)
	assert.Equal(t, 1, rec.count(isLoginRequested))
	assert.Equal(t, LoginRequested{Action: "submit"}, rec.all()[eventsBefore])
}

func TestSubmitAllPassedSolvesAndNavigatesBack(t *testing.T) {
	j := &countingJudge{results: pass(3)}
	c, rec := newController(j, true)

	require.NoError(t, c.Submit(context.Background()))

	evs := rec.all()
	require.Len(t, evs, 3)
	s, ok := evs[0].(StatusReported)
	require.True(t, ok)
	assert.Equal(t, problems.StatusSolved, s.Status)
	assert.Equal(t, store.AttemptSubmit, s.Kind)
	assert.Equal(t, notify.LevelSuccess, evs[1].(Notified).Notification.Level)
	assert.Equal(t, 1, rec.count(isNavigateBack))
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestSubmitFailureReportsAttempted(t *testing.T) {
	j := &countingJudge{results: []judge.TestResult{{Passed: true}, {Passed: false}}}
	c, rec := newController(j, true)

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, rec.statuses(), 1)
	assert.Equal(t, problems.StatusAttempted, rec.statuses()[0].Status)
	assert.Equal(t, notify.Error("Pass all tests before submitting."), rec.notifications()[0])
	assert.Zero(t, rec.count(isNavigateBack))
	assert.Equal(t, PhaseIdle, c.State().Phase)
}

func TestJudgeErrorLeavesNoStatus(t *testing.T) {
	j := &countingJudge{err: errors.New("runner down")}
	c, rec := newController(j, true)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner down")

	st := c.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Empty(t, st.Results)
	assert.Empty(t, rec.statuses())
	ns := rec.notifications()
	require.Len(t, ns, 1)
	assert.Equal(t, notify.LevelError, ns[0].Level)

	// The session is usable again.
	j.err = nil
	j.results = pass(1)
	require.NoError(t, c.Submit(context.Background()))
	assert.Equal(t, 1, rec.count(isNavigateBack))
}

func TestJudgePanicIsContained(t *testing.T) {
	c, rec := newController(judge.Func(func(context.Context, string) ([]judge.TestResult, error) {
		panic("kaboom")
	}), true)

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, PhaseIdle, c.State().Phase)
	assert.Empty(t, rec.statuses())
}

func TestSyncJudgeWorksLikeAsync(t *testing.T) {
	c, rec := newController(judge.Sync(func(code string) []judge.TestResult {
		return []judge.TestResult{{Passed: code == "starter"}}
	}), false)
	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, "All tests passed!", rec.notifications()[0].Message)
}

func TestDisposeDropsLateResults(t *testing.T) {
	j := newBlockingJudge(pass(2))
	c, rec := newController(j, true)

	done := make(chan error, 1)
	go func() { done <- c.Submit(context.Background()) }()
	<-j.started

	c.Dispose()
	close(j.release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrDisposed)
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
	assert.Empty(t, rec.all())
	assert.Empty(t, c.State().Results)

	assert.ErrorIs(t, c.Run(context.Background()), ErrDisposed)
	c.SetCode("ignored")
	assert.Equal(t, "starter", c.Code())
}

func TestResetCode(t *testing.T) {
	answer := false
	rec := &recorder{}
	c := NewController(Options{
		Problem: problems.Problem{ID: "p", StarterCode: "starter", Judge: &countingJudge{results: pass(1)}},
		Sink:    rec,
		Confirmer: confirmFunc(func(context.Context, string) bool {
			return answer
		}),
	})
	c.SetCode("edited")
	require.NoError(t, c.Run(context.Background()))

	ok, err := c.ResetCode(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "edited", c.Code())
	assert.Len(t, c.State().Results, 1)

	answer = true
	n := len(rec.all())
	ok, err = c.ResetCode(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "starter", c.Code())
	assert.Empty(t, c.State().Results)

	evs := rec.all()[n:]
	require.Len(t, evs, 2)
	assert.Equal(t, CodeReplaced{Code: "starter"}, evs[0])
	assert.Equal(t, notify.LevelInfo, evs[1].(Notified).Notification.Level)
}

func TestDeclinedResetEmitsNothing(t *testing.T) {
	rec := &recorder{}
	c := NewController(Options{
		Problem:   problems.Problem{ID: "p", StarterCode: "starter", Judge: &countingJudge{}},
		Sink:      rec,
		Confirmer: confirmFunc(func(context.Context, string) bool { return false }),
	})
	c.SetCode("edited")

	ok, err := c.ResetCode(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "edited", c.Code())
	assert.Empty(t, rec.all())
}

func TestResetWhileBusyIsRejected(t *testing.T) {
	j := newBlockingJudge(pass(1))
	rec := &recorder{}
	c := NewController(Options{
		Problem:   problems.Problem{ID: "p", StarterCode: "starter", Judge: j},
		Sink:      rec,
		Confirmer: confirmFunc(func(context.Context, string) bool { return true }),
	})
	c.SetCode("edited")

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()
	<-j.started

	ok, err := c.ResetCode(context.Background())
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, ok)
	assert.Equal(t, "edited", c.Code())
	assert.Zero(t, rec.count(func(e Event) bool { _, ok := e.(CodeReplaced); return ok }))

	close(j.release)
	require.NoError(t, <-done)
	assert.Equal(t, "edited", c.Code())
}

type confirmFunc func(context.Context, string) bool

func (f confirmFunc) Confirm(ctx context.Context, p string) bool { return f(ctx, p) }

func TestStarAndNotesAreGated(t *testing.T) {
	c, rec := newController(&countingJudge{}, false)

	assert.ErrorIs(t, c.ToggleStar(context.Background()), ErrLoginRequired)
	assert.ErrorIs(t, c.UpdateNotes(context.Background(), "n"), ErrLoginRequired)
	assert.Equal(t, []Event{LoginRequested{Action: "star"}, LoginRequested{Action: "notes"}}, rec.all())
	assert.False(t, c.Starred())

	c2, rec2 := newController(&countingJudge{}, true)
	require.NoError(t, c2.ToggleStar(context.Background()))
	require.NoError(t, c2.ToggleStar(context.Background()))
	require.NoError(t, c2.UpdateNotes(context.Background(), "use two pointers"))
	assert.Equal(t, []Event{
		StarToggled{ProblemID: "two-sum", Starred: true},
		StarToggled{ProblemID: "two-sum", Starred: false},
		NotesUpdated{ProblemID: "two-sum", Notes: "use two pointers"},
	}, rec2.all())
}

type fakeFullscreen bool

func (f fakeFullscreen) IsFullscreen() bool { return bool(f) }

func TestStateReadsFullscreen(t *testing.T) {
	c := NewController(Options{Fullscreen: fakeFullscreen(true)})
	assert.True(t, c.State().IsFullscreen)
	assert.False(t, NewController(Options{}).State().IsFullscreen)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "running", PhaseRunning.String())
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.True(t, State{Phase: PhaseRunning}.Busy())
}
