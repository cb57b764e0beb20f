// Package feedback holds the contracts through which core operations talk
// back to the user: toast notifications, yes/no prompts and the status line.
//
// Operations never return errors to the event loop; they report through
// these sinks instead.
package feedback

// Kind classifies a notification.
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Notifier shows fire-and-forget notifications.
type Notifier interface {
	Notify(kind Kind, title, body string)
}

// Prompt describes a yes/no confirmation.
type Prompt struct {
	Title       string
	Body        string
	ConfirmText string
	CancelText  string
	// Detail is optional pre-rendered content shown under the body
	// (for example a diff of what is about to be overwritten).
	Detail string
}

// Prompter asks the user to confirm. Implementations running on an event
// loop must not block the caller: the answer is delivered to then, possibly
// later.
type Prompter interface {
	Confirm(p Prompt, then func(ok bool))
}

// Level is the severity of a status line update.
type Level int

const (
	Ready Level = iota
	Busy
	Done
	Failed
)

// StatusSink receives status line updates.
type StatusSink interface {
	SetStatus(text string, level Level)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind Kind, title, body string)

func (f NotifierFunc) Notify(kind Kind, title, body string) { f(kind, title, body) }

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(text string, level Level)

func (f StatusFunc) SetStatus(text string, level Level) { f(text, level) }

type discard struct{}

func (discard) Notify(Kind, string, string)          {}
func (discard) SetStatus(string, Level)              {}
func (discard) Confirm(_ Prompt, then func(ok bool)) { then(false) }

// Discard drops notifications and status updates and declines every prompt.
var Discard = discard{}

// Logged wraps n so that every notification is also written to logf.
func Logged(n Notifier, logf func(string, ...any)) Notifier {
	return NotifierFunc(func(kind Kind, title, body string) {
		if logf != nil {
			logf("notify %s: %s: %s", kind, title, body)
		}
		if n != nil {
			n.Notify(kind, title, body)
		}
	})
}
