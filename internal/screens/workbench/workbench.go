// Package workbench is the problem-solving screen: the statement, the code
// editor and the run/submit results for one problem.
package workbench

import (
	"context"
	"errors"
	"log/slog"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/editor"
	"github.com/abhisek/codebench/internal/fullscreen"
	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/notify"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/router"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/session"
	"github.com/abhisek/codebench/internal/ui/components"
	"github.com/abhisek/codebench/internal/ui/layout"
)

// Deps are the collaborators shared by every workbench.
type Deps struct {
	Progress   ProgressStore
	Attempts   AttemptRecorder
	Settings   editor.SettingsStore
	Auth       auth.Capability
	Platform   fullscreen.Platform
	Clipboard  editor.Clipboard
	Downloader editor.Downloader
	Login      func() screen.Screen
	Logger     *slog.Logger
}

// Workbench implements screen.Screen for one problem session.
type Workbench struct {
	deps    Deps
	problem problems.Problem
	logger  *slog.Logger
	keys    keyMap

	ctx    context.Context
	cancel context.CancelFunc
	inbox  *inbox

	controller *session.Controller
	manager    *editor.Manager
	sync       *fullscreen.Synchronizer

	pane      *components.EditorPane
	statement viewport.Model
	help      help.Model
	toasts    components.Toasts
	dialog    *components.ConfirmDialog
	notes     components.TextInput

	status       problems.Status
	starred      bool
	savedNotes   string
	editingNotes bool
	showHelp     bool
	pending      string
	fullscreen   bool
	disposed     bool

	rendered      string
	renderedWidth int
}

var (
	_ screen.Screen          = (*Workbench)(nil)
	_ screen.KeyHintProvider = (*Workbench)(nil)
	_ screen.Disposer        = (*Workbench)(nil)
	_ screen.Resumer         = (*Workbench)(nil)
	_ screen.InputCapturer   = (*Workbench)(nil)
)

// New creates a workbench for p. The session starts from the starter code.
func New(p problems.Problem, deps Deps) *Workbench {
	logger := logging.OrDiscard(deps.Logger).With("screen", "workbench", "problem", p.ID)
	if deps.Platform == nil {
		deps.Platform = fullscreen.NewTerminalWithCheck(func() bool { return false })
	}
	if deps.Auth == nil {
		deps.Auth = auth.Static(false)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Workbench{
		deps:      deps,
		problem:   p,
		logger:    logger,
		keys:      defaultKeyMap(),
		ctx:       ctx,
		cancel:    cancel,
		inbox:     newInbox(),
		statement: viewport.New(),
		help:      help.New(),
		toasts:    components.NewToasts(),
		notes:     components.NewTextInput("Notes for this problem", false, 60),
		status:    p.Status,
		starred:   p.IsStarred,
	}
	if p.Notes != nil {
		w.savedNotes = *p.Notes
	}
	w.notes.SetValue(w.savedNotes)

	confirmer := dialogConfirmer{inbox: w.inbox}
	w.sync = fullscreen.New(deps.Platform, logger)
	w.controller = session.NewController(session.Options{
		Problem:    p,
		Auth:       deps.Auth,
		Sink:       NewDispatcher(deps.Progress, deps.Attempts, w.inbox.post, logger),
		Confirmer:  confirmer,
		Fullscreen: w.sync,
		Logger:     logger,
	})
	w.manager = editor.NewManager(editor.Options{
		Store: deps.Settings,
		Notifier: notify.Func(func(n notify.Notification) {
			w.inbox.post(notifiedMsg{Notification: n})
		}),
		Clipboard:  deps.Clipboard,
		Downloader: deps.Downloader,
		Confirmer:  confirmer,
		Buffer:     w.controller,
		Logger:     logger,
	})
	w.pane = components.NewEditorPane(p.EditorLanguage(), p.StarterCode)
	return w
}

func (w *Workbench) Init() tea.Cmd {
	w.sync.OnChange(func(bool) {
		w.inbox.post(fullscreenChangedMsg{})
	})
	w.sync.Start()
	w.fullscreen = w.sync.IsFullscreen()

	w.manager.Initialize(w.ctx)
	w.manager.SetFullscreen(w.fullscreen)
	w.manager.OnMount(w.pane)

	return tea.Batch(w.inbox.listen(), w.pane.Focus())
}

func (w *Workbench) Title() string {
	return w.problem.Title
}

func (w *Workbench) KeyHints() []layout.KeyHint {
	switch {
	case w.dialog != nil:
		return []layout.KeyHint{{Key: "Y", Description: "Yes"}, {Key: "N", Description: "No"}}
	case w.editingNotes:
		return []layout.KeyHint{{Key: "Enter", Description: "Save notes"}, {Key: "Esc", Description: "Cancel"}}
	}
	bindings := w.keys.ShortHelp()
	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}

// CapturingInput is always true: the editor consumes raw keys and the
// workbench handles esc itself.
func (w *Workbench) CapturingInput() bool { return true }

// Fullscreen reports whether the editor fills the terminal.
func (w *Workbench) Fullscreen() bool { return w.fullscreen }

// Controller exposes the session controller.
func (w *Workbench) Controller() *session.Controller { return w.controller }

// Resume refocuses the editor when the workbench is shown again, such as
// after signing in.
func (w *Workbench) Resume() tea.Cmd {
	if w.disposed {
		return nil
	}
	return w.pane.Focus()
}

// Dispose tears the session down. A judge call still running finishes in the
// background and its results are dropped.
func (w *Workbench) Dispose() {
	if w.disposed {
		return
	}
	w.disposed = true
	if w.dialog != nil {
		w.dialog.Cancel()
		w.dialog = nil
	}
	w.controller.Dispose()
	w.cancel()
	w.manager.Unmount()
	w.sync.Stop()
	if w.sync.IsFullscreen() {
		if err := w.deps.Platform.ExitFullscreen(context.Background()); err != nil {
			w.logger.Warn("exit fullscreen on close", "err", err)
		}
	}
	w.inbox.close()
}

func (w *Workbench) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case inboxMsg:
		if msg.owner != w.inbox || w.disposed {
			return w, nil
		}
		return w, tea.Batch(w.handleInbox(msg.msg), w.inbox.listen())

	case components.ToastExpiredMsg:
		w.toasts.Expire(msg.ID)
		return w, nil

	case actionDoneMsg:
		return w, w.handleActionDone(msg)

	case tea.KeyPressMsg:
		return w, w.handleKey(msg)

	case tea.MouseWheelMsg:
		if w.pane.ScrollPolicy().Wheel {
			return w, w.pane.Update(msg)
		}
		switch msg.Button {
		case tea.MouseWheelUp:
			w.statement.ScrollUp(3)
		case tea.MouseWheelDown:
			w.statement.ScrollDown(3)
		}
		return w, nil

	case tea.PasteMsg:
		if w.editingNotes {
			var cmd tea.Cmd
			w.notes, cmd = w.notes.Update(msg)
			return w, cmd
		}
		cmd := w.pane.Update(msg)
		w.controller.SetCode(w.pane.Value())
		return w, cmd
	}

	return w, w.pane.Update(msg)
}

func (w *Workbench) handleInbox(m any) tea.Cmd {
	switch m := m.(type) {
	case notifiedMsg:
		return w.toasts.Push(m.Notification)

	case statusRecordedMsg:
		if w.status != problems.StatusSolved {
			w.status = m.Status.Status
		}
		return nil

	case sessionEventMsg:
		return w.handleSessionEvent(m.Event)

	case confirmRequestMsg:
		if w.dialog != nil {
			m.Reply <- false
			return nil
		}
		reply := m.Reply
		w.dialog = components.NewConfirmDialog(m.Prompt, func(v bool) { reply <- v })
		w.pane.Blur()
		return nil

	case fullscreenChangedMsg:
		w.fullscreen = w.sync.IsFullscreen()
		w.manager.SetFullscreen(w.fullscreen)
		return nil
	}
	return nil
}

func (w *Workbench) handleSessionEvent(e session.Event) tea.Cmd {
	switch e := e.(type) {
	case session.NavigateBack:
		return func() tea.Msg { return router.PopScreenMsg{} }

	case session.LoginRequested:
		toast := w.toasts.Push(notify.Info("Sign in to " + e.Action))
		if w.deps.Login == nil {
			return toast
		}
		login := w.deps.Login()
		return tea.Batch(toast, func() tea.Msg { return router.PushScreenMsg{Screen: login} })

	case session.CodeReplaced:
		w.pane.SetValue(e.Code)
		return nil

	case session.StarToggled:
		w.starred = e.Starred
		if e.Starred {
			return w.toasts.Push(notify.Success("Starred"))
		}
		return w.toasts.Push(notify.Plain("Star removed"))

	case session.NotesUpdated:
		w.savedNotes = e.Notes
		return w.toasts.Push(notify.Success("Notes saved"))
	}
	return nil
}

func (w *Workbench) handleActionDone(msg actionDoneMsg) tea.Cmd {
	if msg.Action == w.pending {
		w.pending = ""
	}
	err := msg.Err
	switch {
	case err == nil,
		errors.Is(err, session.ErrLoginRequired),
		errors.Is(err, session.ErrDisposed),
		errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, session.ErrBusy):
		w.logger.Debug("action rejected while busy", "action", msg.Action)
		return nil
	case msg.Action == "fullscreen":
		return w.toasts.Push(notify.Error("Fullscreen is not available in this terminal"))
	}
	// Judge, clipboard and download failures have already been reported.
	w.logger.Debug("action failed", "action", msg.Action, "err", err)
	return nil
}

func (w *Workbench) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if w.dialog != nil {
		cmd := w.dialog.Update(msg)
		if w.dialog.Done() {
			w.dialog = nil
			return tea.Batch(cmd, w.pane.Focus())
		}
		return cmd
	}

	if w.showHelp {
		w.showHelp = false
		return nil
	}

	if w.editingNotes {
		return w.handleNotesKey(msg)
	}

	c := w.controller
	switch {
	case key.Matches(msg, w.keys.Back):
		if w.fullscreen {
			return w.background("fullscreen", w.sync.Toggle)
		}
		return func() tea.Msg { return router.PopScreenMsg{} }

	case key.Matches(msg, w.keys.Run):
		return w.judge("run", c.Run)

	case key.Matches(msg, w.keys.Submit):
		return w.judge("submit", c.Submit)

	case key.Matches(msg, w.keys.Restore):
		return w.background("restore", func(ctx context.Context) error {
			_, err := c.ResetCode(ctx)
			return err
		})

	case key.Matches(msg, w.keys.Clear):
		return w.background("clear", func(ctx context.Context) error {
			w.manager.Reset(ctx)
			return nil
		})

	case key.Matches(msg, w.keys.Format):
		_ = w.manager.Format()
		return nil

	case key.Matches(msg, w.keys.Copy):
		code := w.pane.Value()
		return w.background("copy", func(context.Context) error {
			return w.manager.Copy(code)
		})

	case key.Matches(msg, w.keys.Download):
		code, lang := w.pane.Value(), w.problem.EditorLanguage()
		return w.background("download", func(context.Context) error {
			_, err := w.manager.Download(code, lang)
			return err
		})

	case key.Matches(msg, w.keys.Theme):
		w.manager.ToggleTheme(w.ctx)
		return nil

	case key.Matches(msg, w.keys.Minimap):
		w.manager.ToggleMinimap(w.ctx)
		return nil

	case key.Matches(msg, w.keys.Wrap):
		w.manager.ToggleWordWrap(w.ctx)
		return nil

	case key.Matches(msg, w.keys.FontUp):
		w.manager.IncreaseFontSize(w.ctx)
		return nil

	case key.Matches(msg, w.keys.FontDown):
		w.manager.DecreaseFontSize(w.ctx)
		return nil

	case key.Matches(msg, w.keys.Fullscreen):
		return w.background("fullscreen", w.sync.Toggle)

	case key.Matches(msg, w.keys.Star):
		return w.background("star", c.ToggleStar)

	case key.Matches(msg, w.keys.Notes):
		if !w.deps.Auth.Authenticated() {
			notes := w.savedNotes
			return w.background("notes", func(ctx context.Context) error {
				return c.UpdateNotes(ctx, notes)
			})
		}
		w.editingNotes = true
		w.notes.SetValue(w.savedNotes)
		w.pane.Blur()
		return w.notes.Model.Focus()

	case key.Matches(msg, w.keys.Help):
		w.showHelp = true
		return nil
	}

	if !w.pane.ScrollPolicy().Vertical {
		switch msg.String() {
		case "pgup":
			w.statement.PageUp()
			return nil
		case "pgdown":
			w.statement.PageDown()
			return nil
		}
	}

	cmd := w.pane.Update(msg)
	c.SetCode(w.pane.Value())
	return cmd
}

func (w *Workbench) handleNotesKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		w.editingNotes = false
		w.notes.Model.Blur()
		return w.pane.Focus()
	case "enter":
		w.editingNotes = false
		w.notes.Model.Blur()
		notes := w.notes.Value()
		c := w.controller
		return tea.Batch(w.pane.Focus(), w.background("notes", func(ctx context.Context) error {
			return c.UpdateNotes(ctx, notes)
		}))
	}
	var cmd tea.Cmd
	w.notes, cmd = w.notes.Update(msg)
	return cmd
}

// judge starts a run or submit unless one is already showing as pending.
func (w *Workbench) judge(action string, fn func(context.Context) error) tea.Cmd {
	if w.pending != "" {
		return nil
	}
	w.pending = action
	return w.background(action, fn)
}

// background runs fn off the event loop under the workbench context.
func (w *Workbench) background(action string, fn func(context.Context) error) tea.Cmd {
	ctx := w.ctx
	return func() tea.Msg {
		return actionDoneMsg{Action: action, Err: fn(ctx)}
	}
}
