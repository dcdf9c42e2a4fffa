// Package app is the root Bubble Tea model: the screen stack inside the
// header and footer chrome.
package app

import (
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/screens/home"
	"github.com/abhisek/codebench/internal/screens/welcome"
	"github.com/abhisek/codebench/internal/ui/layout"
)

// IdentitySource names the signed-in learner for the header.
type IdentitySource interface {
	Identity() (auth.Identity, error)
}

// Options configures the application.
type Options struct {
	Home        home.Options
	Identity    IdentitySource
	SkipWelcome bool
	Logger      *slog.Logger
}

// fullscreener is implemented by screens that can take over the terminal.
type fullscreener interface {
	Fullscreen() bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	home     *home.HomeScreen
	identity IdentitySource
	logger   *slog.Logger
	width    int
	height   int
}

// newAppModel creates the model, starting on the welcome splash unless
// skipped.
func newAppModel(opts Options) AppModel {
	logger := logging.OrDiscard(opts.Logger)
	if opts.Home.Logger == nil {
		opts.Home.Logger = logger
	}
	homeScreen := home.New(opts.Home)

	var initial screen.Screen = homeScreen
	if !opts.SkipWelcome {
		initial = welcome.New(func() screen.Screen { return homeScreen })
	}
	return AppModel{
		router:   router.New(initial),
		home:     homeScreen,
		identity: opts.Identity,
		logger:   logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.shutdown()
			return m, tea.Quit
		case "esc":
			if capturing(m.router.Active()) {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case tea.QuitMsg:
		m.shutdown()
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// shutdown disposes every open screen so running sessions are torn down.
func (m AppModel) shutdown() {
	for m.router.Depth() > 1 {
		m.router.Pop()
	}
}

func capturing(s screen.Screen) bool {
	c, ok := s.(screen.InputCapturer)
	return ok && c.CapturingInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// render draws the active screen, inside the chrome unless it is fullscreen.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	if fs, ok := active.(fullscreener); ok && fs.Fullscreen() {
		return m.router.View(m.width, m.height)
	}

	title := ""
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.headerStatus(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) headerStatus() layout.HeaderStatus {
	var s layout.HeaderStatus
	if m.home != nil {
		s.Solved, s.Total = m.home.Stats()
	}
	if m.identity != nil {
		if id, err := m.identity.Identity(); err == nil {
			s.User = id.UserID
		}
	}
	return s
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	p := tea.NewProgram(m)
	_, err := p.Run()
	m.shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
