package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette for the application chrome.
var (
	Primary   = lipgloss.Color("#8B5CF6") // Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Info      = lipgloss.Color("#38BDF8") // Sky
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)

// EditorPalette colors the code editor pane. It follows the editor theme
// setting rather than the application chrome.
type EditorPalette struct {
	Background color.Color
	Text       color.Color
	LineNumber color.Color
	CursorLine color.Color
	Border     color.Color
	Minimap    color.Color
	IsDark     bool
}

var (
	EditorDark = EditorPalette{
		Background: lipgloss.Color("#1E1E1E"),
		Text:       lipgloss.Color("#D4D4D4"),
		LineNumber: lipgloss.Color("#858585"),
		CursorLine: lipgloss.Color("#2A2D2E"),
		Border:     Border,
		Minimap:    lipgloss.Color("#5A5A5A"),
		IsDark:     true,
	}

	EditorLight = EditorPalette{
		Background: lipgloss.Color("#FFFFFF"),
		Text:       lipgloss.Color("#1F2328"),
		LineNumber: lipgloss.Color("#6E7781"),
		CursorLine: lipgloss.Color("#F0F3F6"),
		Border:     lipgloss.Color("#D0D7DE"),
		Minimap:    lipgloss.Color("#AFB8C1"),
	}
)

// Editor returns the palette for an editor theme name; anything other than
// "light" is dark.
func Editor(name string) EditorPalette {
	if name == "light" {
		return EditorLight
	}
	return EditorDark
}
