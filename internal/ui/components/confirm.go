package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codebench/internal/ui/theme"
)

// ConfirmDialog is a yes/no prompt. Reply is called once with the answer.
type ConfirmDialog struct {
	Prompt string
	Reply  func(bool)
	yes    Button
	no     Button
	done   bool
}

// NewConfirmDialog creates a dialog with "No" selected.
func NewConfirmDialog(prompt string, reply func(bool)) *ConfirmDialog {
	d := &ConfirmDialog{Prompt: prompt, Reply: reply}
	d.yes = NewButton("Yes", false, func() tea.Cmd { d.answer(true); return nil })
	d.no = NewButton("No", true, func() tea.Cmd { d.answer(false); return nil })
	return d
}

// Done reports whether the dialog has been answered.
func (d *ConfirmDialog) Done() bool { return d.done }

// Cancel answers "no" unless already answered.
func (d *ConfirmDialog) Cancel() { d.answer(false) }

func (d *ConfirmDialog) answer(v bool) {
	if d.done {
		return
	}
	d.done = true
	if d.Reply != nil {
		d.Reply(v)
	}
}

// Update handles y/n shortcuts, arrow selection and enter.
func (d *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || d.done {
		return nil
	}
	switch kmsg.String() {
	case "y", "Y":
		d.answer(true)
	case "n", "N", "esc":
		d.answer(false)
	case "left", "right", "tab", "h", "l":
		d.yes.Active, d.no.Active = !d.yes.Active, !d.no.Active
	case "enter":
		var cmd tea.Cmd
		if d.yes.Active {
			d.yes, cmd = d.yes.Update(msg)
		} else {
			d.no, cmd = d.no.Update(msg)
		}
		return cmd
	}
	return nil
}

// View renders the dialog box.
func (d *ConfirmDialog) View(width int) string {
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, d.yes.View(), "  ", d.no.View())
	body := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(d.Prompt),
		"",
		buttons,
		"",
		theme.Hint.Render("y / n"),
	)
	box := theme.Card.
		BorderForeground(theme.Accent).
		Render(body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
