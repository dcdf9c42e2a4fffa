package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"settings", "progress", "attempt_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "cb.db")
	s1, err := Open(p)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := s1.SettingsRepo().Set(context.Background(), "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	s1.Close()

	s2, err := Open(p)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.SettingsRepo().Get(context.Background(), "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("get after reopen = (%q, %v, %v), want (v, true, nil)", v, ok, err)
	}
}

func TestSettingsGetSet(t *testing.T) {
	s := openTestStore(t)
	repo := s.SettingsRepo()
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if err := repo.Set(ctx, "theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "theme", "light"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	v, ok, err := repo.Get(ctx, "theme")
	if err != nil || !ok {
		t.Fatalf("get = (ok=%v, err=%v)", ok, err)
	}
	if v != "light" {
		t.Errorf("value = %q, want light", v)
	}

	if err := repo.Delete(ctx, "theme"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "theme"); ok {
		t.Error("expected key to be gone after delete")
	}
}

func TestProgressDefaultsToNotStarted(t *testing.T) {
	s := openTestStore(t)
	p, err := s.ProgressRepo().Get(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Status != StatusNotStarted || p.Starred || p.Notes != nil {
		t.Errorf("got %+v, want zero progress", p)
	}
}

func TestReportStatusNeverDowngradesSolved(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	steps := []struct {
		report Status
		want   Status
	}{
		{StatusAttempted, StatusAttempted},
		{StatusSolved, StatusSolved},
		{StatusAttempted, StatusSolved},
		{StatusNotStarted, StatusSolved},
	}
	for i, st := range steps {
		got, err := repo.ReportStatus(ctx, "p1", st.report)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got != st.want {
			t.Errorf("step %d: effective = %q, want %q", i, got, st.want)
		}
		p, _ := repo.Get(ctx, "p1")
		if p.Status != st.want {
			t.Errorf("step %d: stored = %q, want %q", i, p.Status, st.want)
		}
	}
}

func TestReportStatusRejectsUnknown(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.ProgressRepo().ReportStatus(context.Background(), "p1", Status("done")); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestStarAndNotesKeepStatus(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	if _, err := repo.ReportStatus(ctx, "p1", StatusAttempted); err != nil {
		t.Fatalf("report: %v", err)
	}

	starred, err := repo.ToggleStar(ctx, "p1")
	if err != nil || !starred {
		t.Fatalf("toggle = (%v, %v), want (true, nil)", starred, err)
	}

	notes := "use a hash map"
	if err := repo.UpdateNotes(ctx, "p1", &notes); err != nil {
		t.Fatalf("notes: %v", err)
	}

	p, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Status != StatusAttempted {
		t.Errorf("status = %q, want attempted", p.Status)
	}
	if !p.Starred {
		t.Error("expected starred")
	}
	if p.Notes == nil || *p.Notes != notes {
		t.Errorf("notes = %v, want %q", p.Notes, notes)
	}

	starred, err = repo.ToggleStar(ctx, "p1")
	if err != nil || starred {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", starred, err)
	}
	if err := repo.UpdateNotes(ctx, "p1", nil); err != nil {
		t.Fatalf("clear notes: %v", err)
	}
	p, _ = repo.Get(ctx, "p1")
	if p.Notes != nil {
		t.Errorf("notes = %q, want nil", *p.Notes)
	}
}

func TestProgressAll(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	repo.ReportStatus(ctx, "a", StatusSolved)
	repo.SetStarred(ctx, "b", true)

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	if all["a"].Status != StatusSolved {
		t.Errorf("a = %+v", all["a"])
	}
	if !all["b"].Starred || all["b"].Status != StatusNotStarted {
		t.Errorf("b = %+v", all["b"])
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()
	ctx := context.Background()

	sc, err := newSequenceCounter(db)
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAttemptEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if ts, err := repo.LatestAttemptTime(ctx, "p1"); err != nil || !ts.IsZero() {
		t.Fatalf("latest (empty) = (%v, %v)", ts, err)
	}

	before := time.Now().Add(-time.Second)
	inputs := []AttemptEventData{
		{SessionID: "s1", ProblemID: "p1", Kind: AttemptRun, Status: StatusAttempted, Passed: 1, Total: 3},
		{SessionID: "s1", ProblemID: "p2", Kind: AttemptRun, Status: StatusAttempted, Passed: 0, Total: 2},
		{SessionID: "s1", ProblemID: "p1", Kind: AttemptSubmit, Status: StatusSolved, Passed: 3, Total: 3},
	}
	for _, in := range inputs {
		if err := repo.AppendAttempt(ctx, in); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	evs, err := repo.QueryAttempts(ctx, QueryOpts{ProblemID: "p1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("len = %d, want 2", len(evs))
	}
	if evs[0].Kind != AttemptSubmit || evs[0].Status != StatusSolved {
		t.Errorf("newest = %+v, want the submit", evs[0])
	}
	if evs[0].Sequence <= evs[1].Sequence {
		t.Errorf("expected newest first, got %d then %d", evs[0].Sequence, evs[1].Sequence)
	}
	if evs[0].Timestamp.Before(before) {
		t.Errorf("timestamp %v before test start", evs[0].Timestamp)
	}

	limited, err := repo.QueryAttempts(ctx, QueryOpts{Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Fatalf("limited = (%d, %v)", len(limited), err)
	}

	after, err := repo.QueryAttempts(ctx, QueryOpts{After: evs[1].Sequence})
	if err != nil {
		t.Fatalf("after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after len = %d, want 2", len(after))
	}

	ts, err := repo.LatestAttemptTime(ctx, "p2")
	if err != nil || ts.IsZero() {
		t.Errorf("latest p2 = (%v, %v)", ts, err)
	}
}

func TestEnsureDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "db.sqlite")
	if err := EnsureDir(p); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if fi, err := os.Stat(filepath.Dir(p)); err != nil || !fi.IsDir() {
		t.Errorf("dir not created: %v", err)
	}
}
