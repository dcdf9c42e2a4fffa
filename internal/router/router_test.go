package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codebench/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

type disposableScreen struct {
	stubScreen
	disposed bool
}

func (d *disposableScreen) Dispose() { d.disposed = true }

type resumableScreen struct {
	stubScreen
	resumed int
}

func (r *resumableScreen) Resume() tea.Cmd {
	r.resumed++
	return nil
}

func TestPopDisposesAndResumes(t *testing.T) {
	bottom := &resumableScreen{stubScreen: stubScreen{title: "bottom"}}
	r := New(bottom)

	top := &disposableScreen{stubScreen: stubScreen{title: "top"}}
	r.Push(top)
	r.Update(PopScreenMsg{})

	if !top.disposed {
		t.Error("expected popped screen to be disposed")
	}
	if bottom.resumed != 1 {
		t.Errorf("expected bottom screen resumed once, got %d", bottom.resumed)
	}
}

func TestReplaceDisposesOldTop(t *testing.T) {
	old := &disposableScreen{stubScreen: stubScreen{title: "old"}}
	r := New(old)
	r.Replace(&stubScreen{title: "new"})

	if !old.disposed {
		t.Error("expected replaced screen to be disposed")
	}
}

type countingScreen struct {
	stubScreen
	seen int
}

func (c *countingScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) {
	c.seen++
	return c, nil
}

func TestBroadcastReachesEveryScreen(t *testing.T) {
	a := &countingScreen{stubScreen: stubScreen{title: "a"}}
	b := &countingScreen{stubScreen: stubScreen{title: "b"}}
	r := New(a)
	r.Push(b)

	r.Broadcast("hello")

	if a.seen != 1 || b.seen != 1 {
		t.Errorf("expected each screen to see one message, got a=%d b=%d", a.seen, b.seen)
	}
}
