// Package history lists past runs and submissions.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/store"
	"github.com/abhisek/codebench/internal/ui/layout"
	"github.com/abhisek/codebench/internal/ui/theme"
)

const pageSize = 100

// AttemptSource queries stored attempts, newest first.
type AttemptSource interface {
	QueryAttempts(ctx context.Context, opts store.QueryOpts) ([]store.AttemptEvent, error)
}

type historyLoadedMsg struct {
	Attempts []store.AttemptEvent
	Err      error
}

// HistoryScreen displays recent attempts.
type HistoryScreen struct {
	source   AttemptSource
	titles   map[string]string
	now      func() time.Time
	attempts []store.AttemptEvent
	selected int
	offset   int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen. titles maps problem IDs to display titles.
func New(source AttemptSource, titles map[string]string) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		titles:   titles,
		now:      time.Now,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src := s.source
	return func() tea.Msg {
		attempts, err := src.QueryAttempts(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.attempts = msg.Attempts
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Open a problem and press ctrl+r to run it.")
	}

	rows := max(height-2, 1)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}

	var lines []string
	now := s.now()
	for i := s.offset; i < len(s.attempts) && len(lines) < rows; i++ {
		a := s.attempts[i]
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%s%-14s  %-6s  %-32s  %d/%d",
			prefix, humanize.RelTime(a.Timestamp, now, "ago", "from now"),
			a.Kind, s.title(a.ProblemID), a.Passed, a.Total)
		lines = append(lines, style.Render(line)+"  "+verdict(a))

		if s.expanded[i] {
			detail := fmt.Sprintf("    %s  session %s  #%d",
				a.Timestamp.Format("Jan 02, 2006 15:04:05"), a.SessionID, a.Sequence)
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail))
		}
	}

	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func (s *HistoryScreen) title(id string) string {
	if t, ok := s.titles[id]; ok {
		return t
	}
	return id
}

func verdict(a store.AttemptEvent) string {
	switch {
	case a.Kind == store.AttemptSubmit && a.Status == store.StatusSolved:
		return theme.Correct.Render("accepted")
	case a.Passed == a.Total:
		return theme.Correct.Render("passed")
	case a.Kind == store.AttemptSubmit:
		return theme.Incorrect.Render("rejected")
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Render("failing")
}
