package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"charm.land/bubbles/v2/key"

	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/notify"
)

// Notification texts.
const (
	msgSaved      = "Saved. Your code is kept automatically."
	msgRunHint    = "Press ctrl+r to run your code against the tests."
	msgFormatted  = "Code formatted"
	msgCopied     = "Code copied to clipboard"
	msgCopyFailed = "Could not copy code to clipboard"
	msgCleared    = "Editor cleared"
	resetPrompt   = "Clear the editor? This cannot be undone."
)

// Options configures a Manager.
type Options struct {
	Store      SettingsStore
	Notifier   notify.Notifier
	Clipboard  Clipboard
	Downloader Downloader
	Confirmer  Confirmer
	Buffer     Buffer
	Logger     *slog.Logger
	Now        func() time.Time
}

// Manager owns the editor settings and the affordances around the mounted
// surface.
type Manager struct {
	store      SettingsStore
	notifier   notify.Notifier
	clipboard  Clipboard
	downloader Downloader
	confirmer  Confirmer
	buffer     Buffer
	logger     *slog.Logger
	now        func() time.Time

	mu          sync.Mutex
	settings    Settings
	initialized bool
	fullscreen  bool
	observers   map[int]func(Settings)
	nextID      int
	surface     Surface
	unsubscribe func()
}

// NewManager returns a Manager holding the default settings until Initialize.
func NewManager(opts Options) *Manager {
	m := &Manager{
		store:      opts.Store,
		notifier:   opts.Notifier,
		clipboard:  opts.Clipboard,
		downloader: opts.Downloader,
		confirmer:  opts.Confirmer,
		buffer:     opts.Buffer,
		logger:     logging.OrDiscard(opts.Logger),
		now:        opts.Now,
		settings:   DefaultSettings(),
		observers:  make(map[int]func(Settings)),
	}
	if m.notifier == nil {
		m.notifier = notify.Discard
	}
	if m.clipboard == nil {
		m.clipboard = SystemClipboard{}
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Initialize loads settings from the store. Later calls are no-ops.
func (m *Manager) Initialize(ctx context.Context) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return m.settings
	}
	m.initialized = true
	if m.store != nil {
		m.settings = m.store.Load(ctx)
	}
	return m.settings
}

// Settings returns the current settings.
func (m *Manager) Settings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// Set applies one setting change, persists it and notifies observers.
func (m *Manager) Set(ctx context.Context, change Setting) (Settings, error) {
	m.mu.Lock()
	next, err := change.apply(m.settings)
	if err != nil {
		m.mu.Unlock()
		return m.settings, err
	}
	m.settings = next
	observers := make([]func(Settings), 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	if m.store != nil {
		m.store.Save(ctx, next)
	}
	for _, fn := range observers {
		fn(next)
	}
	return next, nil
}

// Subscribe registers fn to receive settings after every change.
func (m *Manager) Subscribe(fn func(Settings)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

func (m *Manager) IncreaseFontSize(ctx context.Context) Settings {
	s, _ := m.Set(ctx, FontSizeSetting{Size: m.Settings().FontSize + 1})
	return s
}

func (m *Manager) DecreaseFontSize(ctx context.Context) Settings {
	s, _ := m.Set(ctx, FontSizeSetting{Size: m.Settings().FontSize - 1})
	return s
}

func (m *Manager) ToggleTheme(ctx context.Context) Settings {
	next := ThemeDark
	if m.Settings().Theme == ThemeDark {
		next = ThemeLight
	}
	s, _ := m.Set(ctx, ThemeSetting{Theme: next})
	return s
}

func (m *Manager) ToggleMinimap(ctx context.Context) Settings {
	s, _ := m.Set(ctx, MinimapSetting{Enabled: !m.Settings().MinimapEnabled})
	return s
}

func (m *Manager) ToggleWordWrap(ctx context.Context) Settings {
	next := WordWrapOff
	if m.Settings().WordWrap == WordWrapOff {
		next = WordWrapOn
	}
	s, _ := m.Set(ctx, WordWrapSetting{Mode: next})
	return s
}

// OnMount attaches the manager to a surface: it binds the save and run-hint
// shortcuts, applies the current settings and scroll policy, and keeps the
// surface in sync with later settings changes.
func (m *Manager) OnMount(s Surface) {
	m.Unmount()

	s.Bind(Binding{
		Key:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Action: func() { m.notifier.Notify(notify.Success(msgSaved)) },
	})
	s.Bind(Binding{
		Key:    key.NewBinding(key.WithKeys("ctrl+enter"), key.WithHelp("ctrl+enter", "run hint")),
		Action: func() { m.notifier.Notify(notify.Info(msgRunHint)) },
	})

	m.mu.Lock()
	settings, fullscreen := m.settings, m.fullscreen
	m.surface = s
	m.mu.Unlock()

	s.ApplySettings(settings)
	s.SetScrollPolicy(ScrollPolicyFor(fullscreen))

	unsub := m.Subscribe(s.ApplySettings)
	m.mu.Lock()
	m.unsubscribe = unsub
	m.mu.Unlock()
}

// Unmount detaches the current surface, if any.
func (m *Manager) Unmount() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.surface = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// SetFullscreen updates the scroll policy of the mounted surface.
func (m *Manager) SetFullscreen(fullscreen bool) {
	m.mu.Lock()
	m.fullscreen = fullscreen
	s := m.surface
	m.mu.Unlock()
	if s != nil {
		s.SetScrollPolicy(ScrollPolicyFor(fullscreen))
	}
}

// Format reformats the mounted document when the surface supports it.
func (m *Manager) Format() error {
	m.mu.Lock()
	s := m.surface
	m.mu.Unlock()

	f, ok := s.(Formatter)
	if !ok {
		return nil
	}
	supported, err := f.FormatDocument()
	if err != nil {
		m.logger.Warn("format document", "err", err)
		m.notifier.Notify(notify.Error("Could not format code"))
		return fmt.Errorf("format: %w", err)
	}
	if !supported {
		return nil
	}
	if m.buffer != nil {
		m.buffer.SetCode(s.Value())
	}
	m.notifier.Notify(notify.Success(msgFormatted))
	return nil
}

// Copy writes content to the clipboard.
func (m *Manager) Copy(content string) error {
	if err := m.clipboard.WriteAll(content); err != nil {
		m.logger.Error("copy to clipboard", "err", err)
		m.notifier.Notify(notify.Error(msgCopyFailed))
		return fmt.Errorf("copy: %w", err)
	}
	m.notifier.Notify(notify.Success(msgCopied))
	return nil
}

// Download saves content as solution-<millis>.<ext> and returns the path.
func (m *Manager) Download(content, languageID string) (string, error) {
	if m.downloader == nil {
		return "", fmt.Errorf("download: no downloader configured")
	}
	name := DownloadName(m.now(), languageID)
	path, err := m.downloader.Download(name, content)
	if err != nil {
		m.logger.Error("download solution", "err", err)
		m.notifier.Notify(notify.Error("Could not save the solution file"))
		return "", fmt.Errorf("download: %w", err)
	}
	m.notifier.Notify(notify.Success(fmt.Sprintf("Downloaded solution as .%s file", ExtensionFor(languageID))))
	return path, nil
}

// Reset clears the buffer to empty after the learner confirms. Declining does
// nothing. It reports whether the buffer was cleared.
func (m *Manager) Reset(ctx context.Context) bool {
	if m.confirmer == nil || !m.confirmer.Confirm(ctx, resetPrompt) {
		return false
	}

	m.mu.Lock()
	s := m.surface
	m.mu.Unlock()
	if s != nil {
		s.SetValue("")
	}
	if m.buffer != nil {
		m.buffer.SetCode("")
	}
	m.notifier.Notify(notify.Info(msgCleared))
	return true
}
