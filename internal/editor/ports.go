package editor

import (
	"context"

	"charm.land/bubbles/v2/key"
)

// Binding is a keyboard shortcut registered on a Surface.
type Binding struct {
	Key    key.Binding
	Action func()
}

// Surface is the mounted editing widget.
type Surface interface {
	Value() string
	SetValue(s string)
	ApplySettings(s Settings)
	SetScrollPolicy(p ScrollPolicy)
	Bind(b Binding)
}

// Formatter is implemented by surfaces that can reformat their document.
// supported is false when the current language has no formatter.
type Formatter interface {
	FormatDocument() (supported bool, err error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteAll(text string) error
}

// Downloader saves a file produced from the editor and returns where it went.
type Downloader interface {
	Download(name, content string) (path string, err error)
}

// Confirmer asks the learner to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to a Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Buffer is the code buffer the editor writes through to.
type Buffer interface {
	SetCode(code string)
}
