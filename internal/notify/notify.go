// Package notify defines the fire-and-forget notification channel shared by
// the editor and the problem session.
package notify

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
	LevelPlain // count/progress messages without a severity color
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	case LevelPlain:
		return "plain"
	default:
		return "info"
	}
}

// Notification is a single message for the learner.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a plain function to a Notifier.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Info is shorthand for an info-level notification.
func Info(msg string) Notification { return Notification{Level: LevelInfo, Message: msg} }

// Success is shorthand for a success-level notification.
func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }

// Error is shorthand for an error-level notification.
func Error(msg string) Notification { return Notification{Level: LevelError, Message: msg} }

// Plain is shorthand for a plain notification.
func Plain(msg string) Notification { return Notification{Level: LevelPlain, Message: msg} }

// Recorder collects notifications in memory. Useful in tests.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Last returns the most recent notification, or the zero value.
func (r *Recorder) Last() Notification {
	if len(r.Notifications) == 0 {
		return Notification{}
	}
	return r.Notifications[len(r.Notifications)-1]
}
