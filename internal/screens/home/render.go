package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/codebench/internal/ui/theme"
)

const titleText = "</> codebench"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 100)
}

func renderTitle(cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(titleText))
}

// renderStatsBar renders the progress counters in a bordered box matching
// the content width.
func renderStatsBar(s stats, cw int, compact bool) string {
	solved := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	attempted := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	starred := lipgloss.NewStyle().Foreground(theme.Info).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			solved.Render(fmt.Sprintf("✓%d/%d", s.Solved, s.Total)),
			attempted.Render(fmt.Sprintf("●%d", s.Attempted)),
			starred.Render(fmt.Sprintf("★%d", s.Starred)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			solved.Render(fmt.Sprintf("✓ %d/%d SOLVED", s.Solved, s.Total)),
			attempted.Render(fmt.Sprintf("● %d IN PROGRESS", s.Attempted)),
			starred.Render(fmt.Sprintf("★ %d STARRED", s.Starred)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(line)
}

// renderFilterTabs shows the filters with the active one highlighted.
func renderFilterTabs(active filter, cw int) string {
	var tabs []string
	for f := filterAll; f < filterCount; f++ {
		style := lipgloss.NewStyle().Foreground(theme.TextDim).Padding(0, 1)
		if f == active {
			style = lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true).Padding(0, 1)
		}
		tabs = append(tabs, style.Render(f.String()))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(tabs, " "))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

func renderEmpty(f filter, cw int) string {
	msg := "No problems loaded."
	switch f {
	case filterUnsolved:
		msg = "Everything is solved. Nice work!"
	case filterStarred:
		msg = "No starred problems yet. Press alt+s in the editor to star one."
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(msg)
}

// renderCabinetFrame wraps content in a rounded frame filling the area.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top).
		Render(content)
}
