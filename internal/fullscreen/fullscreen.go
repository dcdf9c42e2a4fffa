// Package fullscreen keeps the session's fullscreen flag in sync with the
// presentation platform. The flag only ever changes in response to a
// platform change notification.
package fullscreen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abhisek/codebench/internal/logging"
)

// ErrNotInteractive is returned when the platform cannot present fullscreen.
var ErrNotInteractive = errors.New("fullscreen unavailable: not an interactive terminal")

// Platform is the presentation layer that owns the real fullscreen state.
type Platform interface {
	RequestFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error
	Active() bool
	Subscribe(fn func()) (unsubscribe func())
}

// Synchronizer mirrors the platform's fullscreen state.
type Synchronizer struct {
	platform Platform
	logger   *slog.Logger

	mu          sync.Mutex
	fullscreen  bool
	unsubscribe func()
	onChange    func(bool)
}

// New returns a Synchronizer for platform. Call Start to begin listening.
func New(platform Platform, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		platform: platform,
		logger:   logging.OrDiscard(logger),
	}
}

// OnChange registers the observer called after every handled change.
func (s *Synchronizer) OnChange(fn func(fullscreen bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Start subscribes to platform notifications and takes the initial state.
func (s *Synchronizer) Start() {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.mu.Unlock()
		return
	}
	s.unsubscribe = s.platform.Subscribe(s.HandleChange)
	s.fullscreen = s.platform.Active()
	s.mu.Unlock()
}

// Stop unsubscribes. It is safe to call more than once.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// IsFullscreen reports the last state observed from the platform.
func (s *Synchronizer) IsFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullscreen
}

// Toggle asks the platform to enter fullscreen when embedded, or to exit when
// fullscreen. A rejected request is logged and returned; the flag is left
// for HandleChange to update.
func (s *Synchronizer) Toggle(ctx context.Context) error {
	var err error
	if s.IsFullscreen() {
		err = s.platform.ExitFullscreen(ctx)
		if err != nil {
			err = fmt.Errorf("exit fullscreen: %w", err)
		}
	} else {
		err = s.platform.RequestFullscreen(ctx)
		if err != nil {
			err = fmt.Errorf("request fullscreen: %w", err)
		}
	}
	if err != nil {
		s.logger.Warn("fullscreen toggle rejected", "err", err)
	}
	return err
}

// HandleChange reads the platform state into the flag and notifies the
// observer.
func (s *Synchronizer) HandleChange() {
	s.mu.Lock()
	active := s.platform.Active()
	s.fullscreen = active
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(active)
	}
}
