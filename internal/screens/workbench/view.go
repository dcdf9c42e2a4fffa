package workbench

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"

	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/session"
	"github.com/abhisek/codebench/internal/ui/components"
	"github.com/abhisek/codebench/internal/ui/theme"
)

const maxResultRows = 6

func (w *Workbench) View(width, height int) string {
	if w.showHelp {
		w.help.ShowAll = true
		w.help.SetWidth(width - 4)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Card.Render(w.help.View(w.keys)))
	}

	var top []string
	if t := w.toasts.View(width); t != "" {
		top = append(top, t)
	}
	if w.dialog != nil {
		top = append(top, w.dialog.View(width))
	}
	header := strings.Join(top, "\n")
	bodyHeight := height
	if header != "" {
		bodyHeight -= lipgloss.Height(header)
	}
	bodyHeight = max(bodyHeight, 3)

	var body string
	if w.fullscreen {
		body = w.renderEditorColumn(width, bodyHeight)
	} else {
		left := width * 2 / 5
		right := width - left - 1
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			w.renderStatementColumn(left, bodyHeight),
			" ",
			w.renderEditorColumn(right, bodyHeight),
		)
	}

	if header == "" {
		return body
	}
	return header + "\n" + body
}

// renderEditorColumn stacks the editor pane over the results panel.
func (w *Workbench) renderEditorColumn(width, height int) string {
	results := w.renderResults(width)
	paneHeight := max(height-lipgloss.Height(results), 5)
	w.pane.SetSize(width, paneHeight)
	return w.pane.View() + "\n" + results
}

func (w *Workbench) renderStatementColumn(width, height int) string {
	info := w.renderProblemInfo(width)
	notes := w.renderNotes(width)

	vpHeight := height - lipgloss.Height(info) - 1
	if notes != "" {
		vpHeight -= lipgloss.Height(notes) + 1
	}
	w.statement.SetWidth(width)
	w.statement.SetHeight(max(vpHeight, 1))
	if w.renderedWidth != width {
		w.rendered = renderMarkdown(statementMarkdown(w.problem), width)
		w.renderedWidth = width
		w.statement.SetContent(w.rendered)
	}

	parts := []string{info, w.statement.View()}
	if notes != "" {
		parts = append(parts, notes)
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(parts, "\n"))
}

func (w *Workbench) renderProblemInfo(width int) string {
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(w.problem.Title)
	if w.starred {
		title += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render("★")
	}

	meta := []string{
		difficultyStyle(w.problem.Difficulty).Render(string(w.problem.Difficulty)),
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(w.problem.Topic),
		statusLabel(w.status),
	}
	line := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-1, 1)))
	return title + "\n" + strings.Join(meta, "  ") + "\n" + line
}

func (w *Workbench) renderNotes(width int) string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render("Notes")
	switch {
	case w.editingNotes:
		return label + "\n" + w.notes.View()
	case w.savedNotes != "":
		return label + "\n" + lipgloss.NewStyle().Width(width).Foreground(theme.Text).Render(w.savedNotes)
	}
	return ""
}

func (w *Workbench) renderResults(width int) string {
	switch w.pending {
	case "run":
		return theme.Hint.Render("Running your code against the examples...")
	case "submit":
		return theme.Hint.Render("Submitting...")
	}

	st := w.controller.State()
	if st.Phase != session.PhaseIdle {
		return theme.Hint.Render("Judging...")
	}
	if len(st.Results) == 0 {
		return theme.Hint.Render("ctrl+r runs the examples, ctrl+g submits")
	}
	return renderResultList(st.Results, width)
}

func renderResultList(results []judge.TestResult, width int) string {
	passed, total := judge.Count(results)
	lines := []string{components.NewPassBar(passed, total, min(width, 40)).View()}

	shown := 0
	for i, r := range results {
		if shown == maxResultRows {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("... %d more", len(results)-shown)))
			break
		}
		shown++
		if r.Passed {
			lines = append(lines, theme.Correct.Render("✓")+fmt.Sprintf(" Test %d  %s", i+1, r.Duration.Round(time.Millisecond)))
			continue
		}
		detail := r.Error
		if detail == "" {
			detail = fmt.Sprintf("expected %q, got %q", r.Expected, r.Actual)
		}
		line := theme.Incorrect.Render("✗") + fmt.Sprintf(" Test %d  %s", i+1, firstLine(detail))
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(line))
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

func statusLabel(s problems.Status) string {
	switch s {
	case problems.StatusSolved:
		return theme.Correct.Render("✓ solved")
	case problems.StatusAttempted:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("● attempted")
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ not started")
}

func difficultyStyle(d problems.Difficulty) lipgloss.Style {
	switch d {
	case problems.Hard:
		return lipgloss.NewStyle().Foreground(theme.Error)
	case problems.Medium:
		return lipgloss.NewStyle().Foreground(theme.Accent)
	}
	return lipgloss.NewStyle().Foreground(theme.Success)
}

// statementMarkdown builds the statement document with the examples
// appended.
func statementMarkdown(p problems.Problem) string {
	var b strings.Builder
	b.WriteString(p.Statement)
	if len(p.TestCases) == 0 {
		return b.String()
	}
	b.WriteString("\n\n## Examples\n")
	for i, tc := range p.TestCases {
		fmt.Fprintf(&b, "\n**Example %d**\n\nInput:\n\n```\n%s\n```\n\nOutput:\n\n```\n%s\n```\n",
			i+1, strings.TrimRight(tc.Input, "\n"), strings.TrimRight(tc.ExpectedOutput, "\n"))
	}
	return b.String()
}

func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-2, 20)),
	)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(md)
	}
	out, err := r.Render(md)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(md)
	}
	return strings.TrimRight(out, "\n")
}
