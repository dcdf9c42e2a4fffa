package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/store"
)

type fakeSource struct {
	attempts []store.AttemptEvent
	err      error
	opts     store.QueryOpts
}

func (f *fakeSource) QueryAttempts(_ context.Context, opts store.QueryOpts) ([]store.AttemptEvent, error) {
	f.opts = opts
	return f.attempts, f.err
}

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func attempt(seq int64, id string, kind store.AttemptKind, status store.Status, passed, total int, ago time.Duration) store.AttemptEvent {
	return store.AttemptEvent{
		AttemptEventData: store.AttemptEventData{
			SessionID: "s1", ProblemID: id, Kind: kind, Status: status, Passed: passed, Total: total,
		},
		Sequence:  seq,
		Timestamp: now.Add(-ago),
	}
}

func load(t *testing.T, src *fakeSource) *HistoryScreen {
	t.Helper()
	s := New(src, map[string]string{"two-sum": "Two Sum"})
	s.now = func() time.Time { return now }
	s.Update(s.Init()())
	return s
}

func TestLoadsRecentAttempts(t *testing.T) {
	src := &fakeSource{attempts: []store.AttemptEvent{
		attempt(2, "two-sum", store.AttemptSubmit, store.StatusSolved, 3, 3, time.Hour),
		attempt(1, "fizz", store.AttemptRun, store.StatusAttempted, 1, 3, 2*time.Hour),
	}}
	s := load(t, src)

	if src.opts.Limit != pageSize {
		t.Errorf("expected limit %d, got %d", pageSize, src.opts.Limit)
	}
	out := s.View(120, 20)
	for _, want := range []string{"Two Sum", "fizz", "accepted", "failing", "1 hour ago", "3/3"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExpandShowsSession(t *testing.T) {
	s := load(t, &fakeSource{attempts: []store.AttemptEvent{
		attempt(1, "two-sum", store.AttemptRun, store.StatusAttempted, 0, 2, time.Minute),
	}})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 20), "session s1") {
		t.Error("expected expanded details")
	}
}

func TestNavigationBounds(t *testing.T) {
	s := load(t, &fakeSource{attempts: []store.AttemptEvent{
		attempt(2, "a", store.AttemptRun, store.StatusAttempted, 0, 1, time.Minute),
		attempt(1, "b", store.AttemptRun, store.StatusAttempted, 0, 1, time.Hour),
	}})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("expected 0, got %d", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("expected 1, got %d", s.selected)
	}
}

func TestEmptyAndError(t *testing.T) {
	if out := load(t, &fakeSource{}).View(100, 20); !strings.Contains(out, "No attempts yet") {
		t.Error("expected empty message")
	}
	if out := load(t, &fakeSource{err: errors.New("db gone")}).View(100, 20); !strings.Contains(out, "db gone") {
		t.Error("expected error message")
	}
}

func TestEscPops(t *testing.T) {
	s := load(t, &fakeSource{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
