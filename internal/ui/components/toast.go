package components

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/ui/theme"
)

// DefaultToastTTL is how long a toast stays on screen.
const DefaultToastTTL = 4 * time.Second

// ToastExpiredMsg removes the toast with the given ID.
type ToastExpiredMsg struct {
	ID int
}

type toast struct {
	id int
	n  notify.Notification
}

// Toasts is a short stack of transient notifications.
type Toasts struct {
	TTL    time.Duration
	Max    int
	items  []toast
	nextID int
}

// NewToasts creates a toast stack showing at most three messages.
func NewToasts() Toasts {
	return Toasts{TTL: DefaultToastTTL, Max: 3}
}

// Push shows n and returns the command that expires it.
func (t *Toasts) Push(n notify.Notification) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.items = append(t.items, toast{id: id, n: n})
	if t.Max > 0 && len(t.items) > t.Max {
		t.items = t.items[len(t.items)-t.Max:]
	}
	return tea.Tick(t.TTL, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Expire drops the toast with id, if still shown.
func (t *Toasts) Expire(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of visible toasts.
func (t Toasts) Len() int { return len(t.items) }

// Messages returns the visible messages, oldest first.
func (t Toasts) Messages() []notify.Notification {
	out := make([]notify.Notification, len(t.items))
	for i, it := range t.items {
		out[i] = it.n
	}
	return out
}

// View renders the toasts right-aligned within width.
func (t Toasts) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(t.items))
	for _, it := range t.items {
		lines = append(lines, lipgloss.PlaceHorizontal(width, lipgloss.Right, renderToast(it.n)))
	}
	return strings.Join(lines, "\n")
}

func renderToast(n notify.Notification) string {
	var icon string
	color := theme.TextDim
	switch n.Level {
	case notify.LevelSuccess:
		icon, color = "✓ ", theme.Success
	case notify.LevelError:
		icon, color = "✗ ", theme.Error
	case notify.LevelInfo:
		icon, color = "i ", theme.Info
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(theme.Text).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Foreground(color).Bold(true).Render(icon) + n.Message)
}
