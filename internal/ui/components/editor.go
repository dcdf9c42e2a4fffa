package components

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/codebench/internal/editor"
	"github.com/abhisek/codebench/internal/ui/theme"
)

const (
	minimapWidth   = 8
	wheelStep      = 3
	hScrollStep    = 4
	unwrappedWidth = 1000
	wrappedMaxW    = 500
	gutterDigits   = 4
)

// EditorPane is the code editing surface. It wraps a textarea and applies
// editor settings, the scroll policy and extra key bindings. It is safe to
// call from commands running off the event loop.
type EditorPane struct {
	mu       sync.Mutex
	area     textarea.Model
	settings editor.Settings
	policy   editor.ScrollPolicy
	bindings []editor.Binding
	language string
	hoffset  int
	width    int
	height   int
}

var (
	_ editor.Surface   = (*EditorPane)(nil)
	_ editor.Formatter = (*EditorPane)(nil)
)

// NewEditorPane creates a focused pane holding value.
func NewEditorPane(language, value string) *EditorPane {
	ta := textarea.New()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 9999
	ta.ShowLineNumbers = true
	ta.SetValue(value)
	ta.MoveToBegin()
	ta.Focus()

	p := &EditorPane{
		area:     ta,
		language: language,
		settings: editor.DefaultSettings(),
		policy:   editor.ScrollPolicyFor(false),
	}
	p.applyStylesLocked()
	return p
}

// Value returns the document.
func (p *EditorPane) Value() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.area.Value()
}

// SetValue replaces the document and moves the cursor to the top.
func (p *EditorPane) SetValue(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.area.SetValue(s)
	p.area.MoveToBegin()
	p.hoffset = 0
}

// ApplySettings restyles the pane.
func (p *EditorPane) ApplySettings(s editor.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
	p.applyStylesLocked()
	p.resizeLocked()
}

// SetScrollPolicy limits which scroll inputs the pane accepts.
func (p *EditorPane) SetScrollPolicy(policy editor.ScrollPolicy) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.policy = policy
}

// ScrollPolicy returns the active policy.
func (p *EditorPane) ScrollPolicy() editor.ScrollPolicy {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.policy
}

// Bind registers a shortcut handled before text input.
func (p *EditorPane) Bind(b editor.Binding) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bindings = append(p.bindings, b)
}

// Bindings returns the registered shortcuts, for help rendering.
func (p *EditorPane) Bindings() []key.Binding {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]key.Binding, 0, len(p.bindings))
	for _, b := range p.bindings {
		out = append(out, b.Key)
	}
	return out
}

// Settings returns the settings last applied.
func (p *EditorPane) Settings() editor.Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// FormatDocument normalizes the document for languages with a formatter.
func (p *EditorPane) FormatDocument() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out, ok := editor.FormatSource(p.language, p.area.Value())
	if !ok {
		return false, nil
	}
	if out != p.area.Value() {
		row := p.area.Line()
		p.area.SetValue(out)
		p.area.MoveToBegin()
		for i := 0; i < row && p.area.Line() < p.area.LineCount()-1; i++ {
			p.area.CursorDown()
		}
	}
	return true, nil
}

// Focus gives the pane keyboard focus.
func (p *EditorPane) Focus() tea.Cmd {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.area.Focus()
}

// Blur removes keyboard focus.
func (p *EditorPane) Blur() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.area.Blur()
}

// SetSize sets the outer size of the pane, including border and status line.
func (p *EditorPane) SetSize(width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.width, p.height = width, height
	p.resizeLocked()
}

// Update handles key and mouse input. Registered bindings run first; scroll
// inputs the policy forbids are dropped.
func (p *EditorPane) Update(msg tea.Msg) tea.Cmd {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		if action := p.bindingFor(kmsg); action != nil {
			action()
			return nil
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		km := p.area.KeyMap
		if !p.policy.Vertical && key.Matches(msg, km.PageUp, km.PageDown) {
			return nil
		}
	case tea.MouseWheelMsg:
		p.wheelLocked(msg)
		return nil
	}

	var cmd tea.Cmd
	p.area, cmd = p.area.Update(msg)
	p.followCursorLocked()
	return cmd
}

func (p *EditorPane) bindingFor(msg tea.KeyPressMsg) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.bindings {
		if key.Matches(msg, b.Key) {
			return b.Action
		}
	}
	return nil
}

func (p *EditorPane) wheelLocked(msg tea.MouseWheelMsg) {
	if !p.policy.Wheel {
		return
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		if !p.policy.Vertical {
			return
		}
		for i := 0; i < wheelStep; i++ {
			p.area.CursorUp()
		}
	case tea.MouseWheelDown:
		if !p.policy.Vertical {
			return
		}
		for i := 0; i < wheelStep; i++ {
			p.area.CursorDown()
		}
	case tea.MouseWheelLeft:
		if p.policy.Horizontal && !p.wrapping() {
			p.hoffset = max(0, p.hoffset-hScrollStep)
		}
	case tea.MouseWheelRight:
		if p.policy.Horizontal && !p.wrapping() {
			p.hoffset += hScrollStep
		}
	}
}

func (p *EditorPane) wrapping() bool {
	return p.settings.WordWrap != editor.WordWrapOff
}

// textWidth is the number of code columns visible when lines are not wrapped.
func (p *EditorPane) textWidth() int {
	w := p.width - 2 - (gutterDigits + 2)
	if p.settings.MinimapEnabled {
		w -= minimapWidth + 1
	}
	return max(w, 1)
}

func (p *EditorPane) followCursorLocked() {
	if p.wrapping() {
		p.hoffset = 0
		return
	}
	col := p.area.LineInfo().ColumnOffset
	tw := p.textWidth()
	if col < p.hoffset {
		p.hoffset = col
	}
	if col >= p.hoffset+tw {
		p.hoffset = col - tw + 1
	}
}

func (p *EditorPane) resizeLocked() {
	if p.width == 0 || p.height == 0 {
		return
	}
	inner := p.width - 2
	if p.settings.MinimapEnabled {
		inner -= minimapWidth + 1
	}
	if p.wrapping() {
		p.area.ShowLineNumbers = true
		p.area.MaxWidth = wrappedMaxW
		p.area.SetWidth(max(inner, 1))
	} else {
		p.area.ShowLineNumbers = false
		p.area.MaxWidth = 0
		p.area.SetWidth(unwrappedWidth)
	}
	// Border and status line.
	p.area.SetHeight(max(p.height-3, 1))
	p.followCursorLocked()
}

func (p *EditorPane) applyStylesLocked() {
	pal := theme.Editor(string(p.settings.Theme))
	s := textarea.DefaultStyles(pal.IsDark)
	s.Focused.Text = s.Focused.Text.Foreground(pal.Text)
	s.Focused.LineNumber = s.Focused.LineNumber.Foreground(pal.LineNumber)
	s.Focused.CursorLine = s.Focused.CursorLine.Background(pal.CursorLine).Foreground(pal.Text)
	s.Blurred.LineNumber = s.Blurred.LineNumber.Foreground(pal.LineNumber)
	p.area.SetStyles(s)
}

// View renders the pane with its border, optional minimap and status line.
func (p *EditorPane) View() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	pal := theme.Editor(string(p.settings.Theme))
	body := p.area.View()
	if !p.wrapping() {
		body = p.clipLocked(body)
	}
	if p.settings.MinimapEnabled {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", p.minimapLocked(pal))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(pal.Border)
	if p.width > 0 {
		box = box.Width(p.width)
	}
	return box.Render(body) + "\n" + p.statusLocked()
}

// clipLocked draws the gutter and cuts unwrapped lines to the visible
// columns.
func (p *EditorPane) clipLocked(body string) string {
	pal := theme.Editor(string(p.settings.Theme))
	gutter := lipgloss.NewStyle().Foreground(pal.LineNumber)
	top := p.area.ScrollYOffset()
	total := p.area.LineCount()
	tw := p.textWidth()

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		n := top + i + 1
		num := ""
		if n <= total {
			num = fmt.Sprintf("%d", n)
		}
		lines[i] = gutter.Render(fmt.Sprintf(" %*s ", gutterDigits, num)) +
			ansi.Cut(line, p.hoffset, p.hoffset+tw)
	}
	return strings.Join(lines, "\n")
}

// minimapLocked renders one density bar per visible row, sampling the whole
// document, with the visible range highlighted.
func (p *EditorPane) minimapLocked(pal theme.EditorPalette) string {
	rows := p.area.Height()
	docLines := strings.Split(p.area.Value(), "\n")
	total := len(docLines)
	top := p.area.ScrollYOffset()
	bottom := top + rows

	dim := lipgloss.NewStyle().Foreground(pal.Minimap)
	lit := lipgloss.NewStyle().Foreground(pal.Text)

	out := make([]string, rows)
	for r := 0; r < rows; r++ {
		idx := r * total / max(rows, 1)
		if total <= rows {
			idx = r
		}
		bar := ""
		if idx < total {
			bar = strings.Repeat("▪", min(density(docLines[idx]), minimapWidth))
		}
		style := dim
		if idx >= top && idx < bottom {
			style = lit
		}
		out[r] = style.Render(fmt.Sprintf("%-*s", minimapWidth, bar))
	}
	return strings.Join(out, "\n")
}

func density(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return n/6 + 1
}

func (p *EditorPane) statusLocked() string {
	li := p.area.LineInfo()
	wrap := "wrap"
	if !p.wrapping() {
		wrap = "nowrap"
	}
	lock := "scroll locked"
	if p.policy.Vertical {
		lock = "scroll free"
	}
	text := fmt.Sprintf(" %s  Ln %d, Col %d  %s  %dpx  %s  %s",
		p.language, p.area.Line()+1, li.ColumnOffset+1,
		p.settings.Theme, p.settings.FontSize, wrap, lock)
	if p.width > 0 {
		text = ansi.Truncate(text, p.width, "…")
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(text)
}
