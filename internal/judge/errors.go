package judge

import (
	"errors"
	"fmt"
)

// ErrUnsupportedLanguage is returned when no runner configuration exists for
// a language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// RunError reports an infrastructure failure while running code. Learner
// mistakes such as compile errors are reported as failed results instead.
type RunError struct {
	Stage string // setup, build, run, cleanup
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// IsRunError reports whether err is or wraps a *RunError.
func IsRunError(err error) bool {
	var re *RunError
	return errors.As(err, &re)
}
