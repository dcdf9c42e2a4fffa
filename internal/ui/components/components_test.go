package components

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/codebench/internal/editor"
	"github.com/abhisek/codebench/internal/notify"
)

func press(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "pgdown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case "ctrl+s":
		return tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestToastsPushAndExpire(t *testing.T) {
	ts := NewToasts()
	if cmd := ts.Push(notify.Success("saved")); cmd == nil {
		t.Fatal("expected expiry command")
	}
	ts.Push(notify.Error("boom"))
	if ts.Len() != 2 {
		t.Fatalf("expected 2 toasts, got %d", ts.Len())
	}
	ts.Expire(1)
	msgs := ts.Messages()
	if len(msgs) != 1 || msgs[0].Message != "boom" {
		t.Errorf("unexpected toasts after expiry: %+v", msgs)
	}
	if !strings.Contains(ts.View(60), "boom") {
		t.Error("expected view to contain message")
	}
}

func TestToastsCapped(t *testing.T) {
	ts := NewToasts()
	for _, m := range []string{"a", "b", "c", "d"} {
		ts.Push(notify.Plain(m))
	}
	msgs := ts.Messages()
	if len(msgs) != 3 || msgs[0].Message != "b" {
		t.Errorf("expected oldest toast dropped, got %+v", msgs)
	}
}

func TestConfirmDialogAnswersOnce(t *testing.T) {
	var answers []bool
	d := NewConfirmDialog("Sure?", func(v bool) { answers = append(answers, v) })

	d.Update(press("y"))
	d.Update(press("n"))
	d.Cancel()

	if len(answers) != 1 || !answers[0] {
		t.Errorf("expected a single yes, got %v", answers)
	}
	if !d.Done() {
		t.Error("expected dialog done")
	}
}

func TestConfirmDialogEnterUsesSelection(t *testing.T) {
	var got *bool
	d := NewConfirmDialog("Sure?", func(v bool) { got = &v })
	d.Update(press("enter"))
	if got == nil || *got {
		t.Fatal("expected default selection to answer no")
	}

	got = nil
	d = NewConfirmDialog("Sure?", func(v bool) { got = &v })
	d.Update(press("l"))
	d.Update(press("enter"))
	if got == nil || !*got {
		t.Fatal("expected toggled selection to answer yes")
	}
}

func TestMenuWindowFollowsSelection(t *testing.T) {
	items := make([]MenuItem, 10)
	for i := range items {
		items[i] = MenuItem{Label: string(rune('a' + i))}
	}
	m := NewMenu(items)
	for i := 0; i < 6; i++ {
		m, _ = m.Update(press("j"))
	}
	view := m.View(40, 3)
	if !strings.Contains(view, "▸ g") {
		t.Errorf("expected selected item g visible:\n%s", view)
	}
	if strings.Contains(view, "    a") {
		t.Errorf("expected first item scrolled out:\n%s", view)
	}
}

func TestEditorPaneBindingsRunBeforeInput(t *testing.T) {
	p := NewEditorPane("python", "x = 1")
	p.SetSize(60, 20)
	saved := 0
	p.Bind(editor.Binding{
		Key:    key.NewBinding(key.WithKeys("ctrl+s")),
		Action: func() { saved++ },
	})

	p.Update(press("ctrl+s"))
	if saved != 1 {
		t.Errorf("expected binding to fire once, got %d", saved)
	}
	if p.Value() != "x = 1" {
		t.Errorf("binding must not edit the document, got %q", p.Value())
	}
}

func TestEditorPaneTyping(t *testing.T) {
	p := NewEditorPane("python", "")
	p.SetSize(60, 20)
	p.Update(press("a"))
	p.Update(press("b"))
	if p.Value() != "ab" {
		t.Errorf("expected typed text, got %q", p.Value())
	}
}

func TestEditorPaneScrollPolicy(t *testing.T) {
	p := NewEditorPane("python", strings.Repeat("line\n", 100))
	p.SetSize(60, 12)

	p.SetScrollPolicy(editor.ScrollPolicyFor(false))
	p.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	p.Update(press("pgdown"))
	if got := p.area.Line(); got != 0 {
		t.Errorf("locked pane scrolled to line %d", got)
	}

	p.SetScrollPolicy(editor.ScrollPolicyFor(true))
	p.Update(tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if got := p.area.Line(); got != wheelStep {
		t.Errorf("expected wheel to move %d lines, got %d", wheelStep, got)
	}
}

func TestEditorPaneFormatDocument(t *testing.T) {
	p := NewEditorPane("python", "x = 1   \n\n\n\ny = 2")
	ok, err := p.FormatDocument()
	if err != nil || !ok {
		t.Fatalf("FormatDocument() = %v, %v", ok, err)
	}
	if p.Value() != "x = 1\n\ny = 2\n" {
		t.Errorf("unexpected formatted value %q", p.Value())
	}

	p = NewEditorPane("brainfuck", "+++  ")
	ok, _ = p.FormatDocument()
	if ok {
		t.Error("expected unsupported language to be reported")
	}
}

func TestEditorPaneNoWrapClipsLines(t *testing.T) {
	p := NewEditorPane("python", strings.Repeat("x", 200))
	p.ApplySettings(editor.Settings{
		Theme:    editor.ThemeLight,
		FontSize: 14,
		WordWrap: editor.WordWrapOff,
	})
	p.SetSize(40, 10)
	for _, line := range strings.Split(p.View(), "\n") {
		if w := ansi.StringWidth(line); w > 40 {
			t.Errorf("line wider than pane: %d", w)
		}
	}
}

func TestPassBar(t *testing.T) {
	if got := NewPassBar(2, 4, 40).Percent; got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}
	if got := NewPassBar(0, 0, 40).Percent; got != 0 {
		t.Errorf("expected 0 for no tests, got %v", got)
	}
}
