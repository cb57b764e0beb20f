// Package persist implements autosave and restore of the editor state: a
// debounced writer into a single storage slot and the restore decision that
// decides when stored state may replace the in-memory document.
package persist

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"codepad/internal/feedback"
	"codepad/internal/lang"
	"codepad/internal/storage"
)

// DefaultDelay is the autosave quiet period.
const DefaultDelay = 1000 * time.Millisecond

// Document is the in-memory side the controller saves from and restores
// into. The session implements it on top of the editor widget.
type Document interface {
	Value() string
	SetValue(text string)
	Language() lang.Language
	DarkMode() bool
	SetDarkMode(dark bool)
}

// Trigger tells Restore who asked for it.
type Trigger int

const (
	// Auto is the restore performed on startup.
	Auto Trigger = iota
	// Manual is an explicit load requested by the user.
	Manual
)

func (t Trigger) String() string {
	if t == Manual {
		return "manual"
	}
	return "auto"
}

// Action is the outcome of the restore decision.
type Action int

const (
	NoOp Action = iota
	ReportNothing
	Apply
	ConfirmThenApply
)

func (a Action) String() string {
	switch a {
	case ReportNothing:
		return "report-nothing"
	case Apply:
		return "apply"
	case ConfirmThenApply:
		return "confirm-then-apply"
	default:
		return "no-op"
	}
}

// Decide maps (stored state present, document empty, trigger) to an action.
// Only a manual load over a non-empty document asks before overwriting.
func Decide(hasState, docEmpty bool, trigger Trigger) Action {
	if !hasState {
		if trigger == Manual {
			return ReportNothing
		}
		return NoOp
	}
	if trigger == Manual && !docEmpty {
		return ConfirmThenApply
	}
	return Apply
}

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Key       string
	Delay     time.Duration
	Scheduler Scheduler
	Now       func() time.Time
	Notifier  feedback.Notifier
	Prompter  feedback.Prompter
	Status    feedback.StatusSink
	// Differ renders the change a restore would make; shown in the
	// confirmation prompt when set.
	Differ func(before, after string) string
	Logf   func(format string, args ...any)
}

// Controller owns all access to the storage slot.
type Controller struct {
	doc      Document
	store    storage.Store
	key      string
	now      func() time.Time
	notify   feedback.Notifier
	prompt   feedback.Prompter
	status   feedback.StatusSink
	differ   func(before, after string) string
	logf     func(format string, args ...any)
	debounce *debouncer

	mu        sync.Mutex
	lastSaved string
}

// New returns a controller saving doc into store.
func New(doc Document, store storage.Store, opts Options) *Controller {
	c := &Controller{
		doc:    doc,
		store:  store,
		key:    opts.Key,
		now:    opts.Now,
		notify: opts.Notifier,
		prompt: opts.Prompter,
		status: opts.Status,
		differ: opts.Differ,
		logf:   opts.Logf,
	}
	if c.key == "" {
		c.key = DefaultKey
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.notify == nil {
		c.notify = feedback.Discard
	}
	if c.prompt == nil {
		c.prompt = feedback.Discard
	}
	if c.status == nil {
		c.status = feedback.Discard
	}
	if c.logf == nil {
		c.logf = func(string, ...any) {}
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = RealTime
	}
	c.debounce = &debouncer{sched: sched, delay: delay, fn: c.SaveNow}
	return c
}

// Key returns the storage key of the slot.
func (c *Controller) Key() string { return c.key }

// ScheduleSave restarts the autosave timer. Call it on every document change.
func (c *Controller) ScheduleSave() { c.debounce.Call() }

// Pending reports whether an autosave is scheduled.
func (c *Controller) Pending() bool { return c.debounce.Pending() }

// Flush performs a scheduled save immediately. Used before exit.
func (c *Controller) Flush() { c.debounce.Flush() }

// Snapshot captures the current document as an EditorState.
func (c *Controller) Snapshot() EditorState {
	return EditorState{
		Code:       c.doc.Value(),
		Language:   c.doc.Language().String(),
		IsDarkMode: c.doc.DarkMode(),
		Timestamp:  c.now().UTC().Format(TimestampLayout),
	}
}

// SaveNow writes the current state into the slot, replacing whatever was
// there. Failures are reported to the status sink.
func (c *Controller) SaveNow() {
	st := c.Snapshot()
	raw, err := Encode(st)
	if err == nil {
		err = c.store.Set(c.key, raw)
	}
	if err != nil {
		c.logf("save state: %v", err)
		c.status.SetStatus("Save failed: "+err.Error(), feedback.Failed)
		return
	}
	c.mu.Lock()
	c.lastSaved = st.Timestamp
	c.mu.Unlock()
	c.logf("state saved (%d bytes)", len(raw))
	c.status.SetStatus("State saved", feedback.Done)
}

// LastSaved returns the timestamp of the last successful SaveNow of this
// controller, empty before the first one.
func (c *Controller) LastSaved() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaved
}

// Peek reads the slot without touching the document.
func (c *Controller) Peek() (EditorState, bool, error) {
	raw, ok, err := c.store.Get(c.key)
	if err != nil || !ok {
		return EditorState{}, false, err
	}
	st, err := Decode(raw)
	if err != nil {
		return EditorState{}, false, err
	}
	return st, true, nil
}

// Restore reconciles the slot with the document according to Decide.
func (c *Controller) Restore(trigger Trigger) {
	raw, ok, err := c.store.Get(c.key)
	if err != nil {
		c.loadFailed(trigger, err)
		return
	}
	var st EditorState
	if ok {
		st, err = Decode(raw)
		if err != nil {
			c.loadFailed(trigger, err)
			return
		}
	}
	docEmpty := strings.TrimSpace(c.doc.Value()) == ""

	switch Decide(ok, docEmpty, trigger) {
	case ReportNothing:
		c.notify.Notify(feedback.Info, "No saved state", "No saved state found in storage")
	case Apply:
		c.apply(st, trigger)
	case ConfirmThenApply:
		p := feedback.Prompt{
			Title:       "Load from Local Storage",
			Body:        "Are you sure you want to load the saved state? All unsaved changes will be lost.",
			ConfirmText: "Yes, load saved state",
			CancelText:  "Cancel",
		}
		if c.differ != nil {
			p.Detail = c.differ(c.doc.Value(), st.Code)
		}
		c.prompt.Confirm(p, func(ok bool) {
			if ok {
				c.apply(st, trigger)
			}
		})
	}
}

func (c *Controller) loadFailed(trigger Trigger, err error) {
	c.logf("load state (%s): %v", trigger, err)
	if trigger == Manual {
		c.notify.Notify(feedback.Error, "Error", "Failed to load state from storage")
		c.status.SetStatus("Load failed", feedback.Failed)
	}
}

// apply replaces the document with the stored code (unless empty) and then
// applies the stored theme unconditionally.
func (c *Controller) apply(st EditorState, trigger Trigger) {
	if st.Code != "" {
		c.doc.SetValue(st.Code)
	}
	c.doc.SetDarkMode(st.IsDarkMode)
	c.logf("state loaded (%s)", trigger)
	if trigger == Manual {
		c.notify.Notify(feedback.Success, "Loaded!", fmt.Sprintf("State loaded from %s", st.describeTime()))
		c.status.SetStatus("State loaded", feedback.Done)
	}
}

// Clear asks for confirmation and then removes the slot. A scheduled
// autosave is cancelled so it cannot recreate the slot right after.
func (c *Controller) Clear() {
	c.prompt.Confirm(feedback.Prompt{
		Title:       "Clear Local Storage",
		Body:        "Are you sure you want to clear all saved data from local storage? This action cannot be undone.",
		ConfirmText: "Yes, clear storage",
		CancelText:  "Cancel",
	}, func(ok bool) {
		if !ok {
			return
		}
		c.debounce.Cancel()
		if err := c.store.Remove(c.key); err != nil {
			c.logf("clear state: %v", err)
			c.notify.Notify(feedback.Error, "Error", "Failed to clear storage: "+err.Error())
			c.status.SetStatus("Clear failed", feedback.Failed)
			return
		}
		c.logf("state cleared")
		c.status.SetStatus("Local storage cleared successfully", feedback.Done)
		c.notify.Notify(feedback.Success, "Cleared!", "Your local storage has been cleared.")
	})
}
