package fullscreen

import (
	"context"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal presents fullscreen as the editor filling the whole TTY, with the
// app's header and footer hidden. Accepted requests flip the flag and notify
// subscribers asynchronously.
type Terminal struct {
	interactive func() bool

	mu     sync.Mutex
	active bool
	subs   map[int]func()
	nextID int
}

// NewTerminal returns a platform for the process's stdout.
func NewTerminal() *Terminal {
	return NewTerminalWithCheck(func() bool {
		return term.IsTerminal(int(os.Stdout.Fd()))
	})
}

// NewTerminalWithCheck returns a platform using interactive to decide whether
// fullscreen can be presented.
func NewTerminalWithCheck(interactive func() bool) *Terminal {
	return &Terminal{interactive: interactive, subs: make(map[int]func())}
}

func (t *Terminal) RequestFullscreen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.interactive() {
		return ErrNotInteractive
	}
	t.Set(true)
	return nil
}

func (t *Terminal) ExitFullscreen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.Set(false)
	return nil
}

func (t *Terminal) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Terminal) Subscribe(fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

// Set changes the presentation state, as when the user leaves fullscreen
// outside of a Toggle. Subscribers are notified asynchronously when the
// state actually changes.
func (t *Terminal) Set(active bool) {
	t.mu.Lock()
	if t.active == active {
		t.mu.Unlock()
		return
	}
	t.active = active
	subs := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		go fn()
	}
}
