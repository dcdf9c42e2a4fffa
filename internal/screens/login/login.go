// Package login is the sign-in screen. The learner pastes an access token.
package login

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/ui/components"
	"github.com/abhisek/codebench/internal/ui/layout"
	"github.com/abhisek/codebench/internal/ui/theme"
)

const loginTimeout = 10 * time.Second

// Authenticator signs the learner in with a token.
type Authenticator interface {
	Login(ctx context.Context, token string) (auth.Identity, error)
}

type loginDoneMsg struct {
	identity auth.Identity
	err      error
}

// Screen asks for a token and pops itself once signed in.
type Screen struct {
	auth    Authenticator
	logger  *slog.Logger
	input   components.TextInput
	pending bool
	errText string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates a login screen.
func New(a Authenticator, logger *slog.Logger) *Screen {
	return &Screen{
		auth:   a,
		logger: logging.OrDiscard(logger).With("screen", "login"),
		input:  components.NewTextInput("paste your access token", true, 48),
	}
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *Screen) Title() string { return "Sign in" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Sign in"},
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.pending = false
		if msg.err != nil {
			s.input.Submit(false)
			s.errText = describe(msg.err)
			s.logger.Info("sign in rejected", "err", msg.err)
			return s, nil
		}
		s.input.Submit(true)
		s.logger.Info("signed in", "user", msg.identity.UserID)
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if msg.String() == "enter" {
			return s, s.submit()
		}
		s.errText = ""
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) submit() tea.Cmd {
	token := s.input.Value()
	if token == "" || s.pending || s.auth == nil {
		return nil
	}
	s.pending = true
	a := s.auth
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loginTimeout)
		defer cancel()
		id, err := a.Login(ctx, token)
		return loginDoneMsg{identity: id, err: err}
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "That token has expired."
	case errors.Is(err, auth.ErrInvalidToken):
		return "That token is not valid."
	}
	return "Could not sign in: " + err.Error()
}

func (s *Screen) View(width, height int) string {
	lines := []string{
		theme.Title.Render("Sign in to codebench"),
		theme.Hint.Render("Submitting, starring and notes need an account."),
		"",
		s.input.View(),
	}
	switch {
	case s.pending:
		lines = append(lines, "", theme.Hint.Render("Checking token…"))
	case s.errText != "":
		lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.Error).Render(s.errText))
	}
	card := theme.Card.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
