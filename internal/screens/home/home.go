// Package home is the problem picker.
package home

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/screens/history"
	"github.com/abhisek/codebench/internal/screens/workbench"
	"github.com/abhisek/codebench/internal/ui/components"
	"github.com/abhisek/codebench/internal/ui/layout"
)

// AttemptHistory reports when a problem was last run or submitted.
type AttemptHistory interface {
	LatestAttemptTime(ctx context.Context, problemID string) (time.Time, error)
}

// Options configures the home screen.
type Options struct {
	Catalog   *problems.Catalog
	Progress  problems.ProgressSource
	History   AttemptHistory
	Attempts  history.AttemptSource
	Workbench workbench.Deps
	Logger    *slog.Logger
	Now       func() time.Time
}

type filter int

const (
	filterAll filter = iota
	filterUnsolved
	filterStarred
	filterCount
)

func (f filter) String() string {
	switch f {
	case filterUnsolved:
		return "Unsolved"
	case filterStarred:
		return "Starred"
	}
	return "All"
}

type stats struct {
	Solved, Attempted, Starred, Total int
}

// HomeScreen lists the catalog with the learner's progress.
type HomeScreen struct {
	opts   Options
	logger *slog.Logger

	menu        components.Menu
	filter      filter
	visible     []problems.Problem
	lastAttempt map[string]time.Time
	stats       stats
	mascot      MascotVariant
}

var (
	_ screen.Screen          = (*HomeScreen)(nil)
	_ screen.Resumer         = (*HomeScreen)(nil)
	_ screen.KeyHintProvider = (*HomeScreen)(nil)
)

// New creates a HomeScreen and loads progress.
func New(opts Options) *HomeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &HomeScreen{
		opts:        opts,
		logger:      logging.OrDiscard(opts.Logger).With("screen", "home"),
		lastAttempt: map[string]time.Time{},
	}
	h.refresh()
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads progress after a workbench closes.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

// Stats returns the solved and total problem counts.
func (h *HomeScreen) Stats() (solved, total int) {
	return h.stats.Solved, h.stats.Total
}

func (h *HomeScreen) refresh() {
	if h.opts.Catalog == nil {
		h.rebuild()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if h.opts.Progress != nil {
		if err := h.opts.Catalog.MergeProgress(ctx, h.opts.Progress); err != nil {
			h.logger.Error("merge progress", "err", err)
		}
	}
	if h.opts.History != nil {
		for _, p := range h.opts.Catalog.All() {
			if p.Status == problems.StatusNotStarted {
				continue
			}
			t, err := h.opts.History.LatestAttemptTime(ctx, p.ID)
			if err != nil {
				h.logger.Warn("latest attempt", "problem", p.ID, "err", err)
				continue
			}
			if !t.IsZero() {
				h.lastAttempt[p.ID] = t
			}
		}
	}
	h.rebuild()
}

// rebuild recomputes counters and the visible list for the current filter.
func (h *HomeScreen) rebuild() {
	var all []problems.Problem
	if h.opts.Catalog != nil {
		all = h.opts.Catalog.All()
	}

	h.stats = stats{Total: len(all)}
	recent := false
	now := h.opts.Now()
	h.visible = h.visible[:0]
	for _, p := range all {
		switch p.Status {
		case problems.StatusSolved:
			h.stats.Solved++
			if t, ok := h.lastAttempt[p.ID]; ok && now.Sub(t) < 24*time.Hour {
				recent = true
			}
		case problems.StatusAttempted:
			h.stats.Attempted++
		}
		if p.IsStarred {
			h.stats.Starred++
		}
		if h.matches(p) {
			h.visible = append(h.visible, p)
		}
	}

	switch {
	case recent:
		h.mascot = MascotCelebrating
	case h.stats.Attempted > 0:
		h.mascot = MascotAlert
	default:
		h.mascot = MascotIdle
	}

	items := make([]components.MenuItem, 0, len(h.visible))
	for _, p := range h.visible {
		id := p.ID
		items = append(items, components.MenuItem{
			Label:  itemLabel(p),
			Detail: h.itemDetail(p),
			Action: func() tea.Cmd { return h.open(id) },
		})
	}
	selected := h.menu.Selected
	h.menu = components.NewMenu(items)
	h.menu.Selected = min(selected, max(len(items)-1, 0))
}

func (h *HomeScreen) matches(p problems.Problem) bool {
	switch h.filter {
	case filterUnsolved:
		return p.Status != problems.StatusSolved
	case filterStarred:
		return p.IsStarred
	}
	return true
}

// open pushes a workbench with the freshest copy of the problem.
func (h *HomeScreen) open(id string) tea.Cmd {
	p, err := h.opts.Catalog.Get(id)
	if err != nil {
		h.logger.Error("open problem", "problem", id, "err", err)
		return nil
	}
	wb := workbench.New(p, h.opts.Workbench)
	return func() tea.Msg { return router.PushScreenMsg{Screen: wb} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	if h.opts.Attempts == nil {
		return nil
	}
	titles := map[string]string{}
	if h.opts.Catalog != nil {
		for _, p := range h.opts.Catalog.All() {
			titles[p.ID] = p.Title
		}
	}
	hs := history.New(h.opts.Attempts, titles)
	return func() tea.Msg { return router.PushScreenMsg{Screen: hs} }
}

func itemLabel(p problems.Problem) string {
	mark := "○"
	switch p.Status {
	case problems.StatusSolved:
		mark = "✓"
	case problems.StatusAttempted:
		mark = "●"
	}
	star := " "
	if p.IsStarred {
		star = "★"
	}
	return fmt.Sprintf("%s %s %s", mark, star, p.Title)
}

func (h *HomeScreen) itemDetail(p problems.Problem) string {
	parts := []string{string(p.Difficulty), p.EditorLanguage()}
	if t, ok := h.lastAttempt[p.ID]; ok {
		parts = append(parts, humanize.RelTime(t, h.opts.Now(), "ago", "from now"))
	}
	return strings.Join(parts, " · ")
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "tab":
			h.filter = (h.filter + 1) % filterCount
			h.menu.Selected = 0
			h.rebuild()
			return h, nil
		case "shift+tab":
			h.filter = (h.filter + filterCount - 1) % filterCount
			h.menu.Selected = 0
			h.rebuild()
			return h, nil
		case "h":
			return h, h.openHistory()
		case "q":
			return h, tea.Quit
		}
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 80
	cw := contentWidth(width)

	sections := []string{renderTitle(cw)}
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections,
		renderStatsBar(h.stats, cw, compact),
		renderFilterTabs(h.filter, cw),
	)

	top := strings.Join(sections, "\n\n")
	listHeight := height - 2 - lipgloss.Height(top) - 2
	var list string
	if len(h.visible) == 0 {
		list = renderEmpty(h.filter, cw)
	} else {
		list = lipgloss.NewStyle().Width(cw).Render(h.menu.View(cw, max(listHeight, 1)))
	}

	return renderCabinetFrame(top+"\n\n"+list, width, height)
}

func (h *HomeScreen) Title() string {
	return "Problems"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Tab", Description: "Filter"},
		{Key: "H", Description: "History"},
		{Key: "Q", Description: "Quit"},
	}
}
