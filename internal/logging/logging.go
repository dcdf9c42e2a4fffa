// Package logging builds the application logger. The TUI owns stdout, so log
// output goes to a file under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
)

// DefaultPath returns $XDG_STATE_HOME/codebench/codebench.log, falling back
// to ~/.local/state.
func DefaultPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "codebench", "codebench.log"), nil
}

// New returns a slog logger backed by a charmbracelet/log handler writing to w.
func New(w io.Writer, level string) *slog.Logger {
	handler := clog.NewWithOptions(w, clog.Options{
		Prefix:          "codebench",
		ReportTimestamp: true,
		Level:           parseLevel(level),
	})
	return slog.New(handler)
}

// Open opens (or creates) the log file at path and returns a logger writing to
// it along with a close function.
func Open(path, level string) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}

func parseLevel(s string) clog.Level {
	lvl, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return clog.InfoLevel
	}
	return lvl
}
