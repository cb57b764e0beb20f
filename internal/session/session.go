// Package session is the editing session: one document, its language and
// theme, and the preview renderer and persistence controller built around
// it. Every user action of the editor page lands here; the front end only
// maps keys to these methods and renders the sinks.
//
// Methods must be called from the front end's event loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codepad/internal/feedback"
	"codepad/internal/files"
	"codepad/internal/format"
	"codepad/internal/lang"
	"codepad/internal/persist"
	"codepad/internal/preview"
	"codepad/internal/storage"
)

// Widget is the editor component the session drives.
type Widget interface {
	Value() string
	SetValue(text string)
	SetLanguage(l lang.Language)
	SetTheme(dark bool)
}

// Runner runs work off the event loop and later calls the function it
// returns on the loop.
type Runner func(work func() (apply func()))

// Sync runs work and apply inline.
func Sync(work func() (apply func())) {
	if apply := work(); apply != nil {
		apply()
	}
}

// Options wires a session. Zero values select defaults.
type Options struct {
	Store     storage.Store
	Key       string
	Delay     time.Duration
	Scheduler persist.Scheduler
	Now       func() time.Time

	Surface   preview.Surface
	Formatter format.Formatter
	Clipboard func(text string) error
	SaveDir   string
	Language  lang.Language
	Dark      bool

	Notifier feedback.Notifier
	Prompter feedback.Prompter
	Status   feedback.StatusSink
	Differ   func(before, after string) string
	Run      Runner
	Logf     func(format string, args ...any)
}

type Session struct {
	w        Widget
	lang     lang.Language
	dark     bool
	quiet    bool
	renderer *preview.Renderer
	state    *persist.Controller

	format    format.Formatter
	clipboard func(string) error
	saveDir   string
	notify    feedback.Notifier
	prompt    feedback.Prompter
	status    feedback.StatusSink
	run       Runner
	logf      func(format string, args ...any)
}

// New builds a session around w. The session is the document seen by the
// persistence controller.
func New(w Widget, opts Options) *Session {
	s := &Session{
		w:         w,
		lang:      opts.Language,
		dark:      opts.Dark,
		format:    opts.Formatter,
		clipboard: opts.Clipboard,
		saveDir:   opts.SaveDir,
		notify:    opts.Notifier,
		prompt:    opts.Prompter,
		status:    opts.Status,
		run:       opts.Run,
		logf:      opts.Logf,
	}
	if s.lang == "" {
		s.lang = lang.HTML
	}
	if s.notify == nil {
		s.notify = feedback.Discard
	}
	if s.prompt == nil {
		s.prompt = feedback.Discard
	}
	if s.status == nil {
		s.status = feedback.Discard
	}
	if s.run == nil {
		s.run = Sync
	}
	if s.logf == nil {
		s.logf = func(string, ...any) {}
	}
	if s.format == nil {
		s.format = format.Builtin{}
	}
	store := opts.Store
	if store == nil {
		store = storage.NewMemStore()
	}
	surface := opts.Surface
	if surface == nil {
		surface = &preview.TextPane{}
	}
	s.renderer = preview.NewRenderer(surface, s.status, s.logf)
	s.state = persist.New(s, store, persist.Options{
		Key:       opts.Key,
		Delay:     opts.Delay,
		Scheduler: opts.Scheduler,
		Now:       opts.Now,
		Notifier:  s.notify,
		Prompter:  s.prompt,
		Status:    s.status,
		Differ:    opts.Differ,
		Logf:      s.logf,
	})
	w.SetLanguage(s.lang)
	w.SetTheme(s.dark)
	return s
}

// Start loads initial into the editor, restores the stored state when
// restore is set and renders the first preview. Nothing is saved.
func (s *Session) Start(initial string, restore bool) {
	s.quiet = true
	s.w.SetValue(initial)
	if restore {
		s.state.Restore(persist.Auto)
	}
	s.quiet = false
	s.renderer.Render(s.w.Value())
}

// Controller exposes the persistence controller.
func (s *Session) Controller() *persist.Controller { return s.state }

func (s *Session) Value() string { return s.w.Value() }

// SetValue replaces the document and runs the change handling.
func (s *Session) SetValue(text string) {
	s.w.SetValue(text)
	if !s.quiet {
		s.OnChange()
	}
}

func (s *Session) Language() lang.Language { return s.lang }

func (s *Session) DarkMode() bool { return s.dark }

// SetDarkMode applies a theme without saving.
func (s *Session) SetDarkMode(dark bool) {
	s.dark = dark
	s.w.SetTheme(dark)
}

// OnChange is the document change handler: re-render and schedule a save.
func (s *Session) OnChange() {
	s.renderer.Render(s.w.Value())
	s.state.ScheduleSave()
}

// RunPreview re-renders without touching storage.
func (s *Session) RunPreview() { s.renderer.Render(s.w.Value()) }

// ToggleTheme flips the theme and saves immediately.
func (s *Session) ToggleTheme() {
	s.SetDarkMode(!s.dark)
	s.state.SaveNow()
	if s.dark {
		s.status.SetStatus("Dark theme", feedback.Done)
	} else {
		s.status.SetStatus("Light theme", feedback.Done)
	}
}

// ChangeLanguage switches the syntax mode. Switching a non-empty document
// to another language asks first; the code itself is kept either way.
func (s *Session) ChangeLanguage(l lang.Language) {
	from := s.lang
	if l != from && !s.empty() {
		s.prompt.Confirm(feedback.Prompt{
			Title:       "Change Language",
			Body:        fmt.Sprintf("Are you sure you want to change the language from %s to %s? The code will remain but syntax highlighting will change.", from.Upper(), l.Upper()),
			ConfirmText: "Yes, change language",
			CancelText:  "Cancel",
		}, func(ok bool) {
			if !ok {
				return
			}
			s.setLanguage(l)
			s.status.SetStatus("Language changed to "+l.Upper(), feedback.Done)
		})
		return
	}
	s.setLanguage(l)
	s.status.SetStatus("Language set to "+l.Upper(), feedback.Done)
}

func (s *Session) setLanguage(l lang.Language) {
	s.lang = l
	s.w.SetLanguage(l)
	s.state.SaveNow()
}

func (s *Session) empty() bool { return strings.TrimSpace(s.w.Value()) == "" }

// confirmDiscard runs then directly on an empty document and after a yes
// otherwise.
func (s *Session) confirmDiscard(p feedback.Prompt, then func()) {
	if s.empty() {
		then()
		return
	}
	s.prompt.Confirm(p, func(ok bool) {
		if ok {
			then()
		}
	})
}

// NewFile empties the editor.
func (s *Session) NewFile() {
	s.confirmDiscard(feedback.Prompt{
		Title:       "Create New File",
		Body:        "Are you sure you want to create a new file? All unsaved changes will be lost.",
		ConfirmText: "Yes, create new file",
		CancelText:  "Cancel",
	}, func() {
		s.SetValue("")
		s.status.SetStatus("New file created", feedback.Done)
	})
}

// RequestOpen confirms discarding the document and then calls pick, which
// shows the file chooser.
func (s *Session) RequestOpen(pick func()) {
	s.confirmDiscard(feedback.Prompt{
		Title:       "Open File",
		Body:        "Are you sure you want to open a file? All unsaved changes will be lost.",
		ConfirmText: "Yes, open file",
		CancelText:  "Cancel",
	}, pick)
}

// OpenFile loads path into the editor and switches to its language.
func (s *Session) OpenFile(path string) {
	o, err := files.Open(path)
	if err != nil {
		s.logf("open: %v", err)
		s.notify.Notify(feedback.Error, "Open failed", err.Error())
		s.status.SetStatus("Open failed", feedback.Failed)
		return
	}
	if o.Language != s.lang {
		s.lang = o.Language
		s.w.SetLanguage(o.Language)
	}
	s.SetValue(o.Text)
	s.status.SetStatus("File opened: "+o.Name, feedback.Done)
}

// SaveFile writes the document to code.<ext> after a confirmation.
func (s *Session) SaveFile() {
	code := s.w.Value()
	if strings.TrimSpace(code) == "" {
		s.notify.Notify(feedback.Info, "Nothing to save", "Please write some code first.")
		return
	}
	name := files.FileName(s.lang)
	l := s.lang
	s.prompt.Confirm(feedback.Prompt{
		Title:       "Save File",
		Body:        fmt.Sprintf("Are you sure you want to save the file as %q?", name),
		ConfirmText: "Yes, save file",
		CancelText:  "Cancel",
	}, func(ok bool) {
		if !ok {
			return
		}
		s.status.SetStatus("Saving...", feedback.Busy)
		path, err := files.Save(s.saveDir, code, l)
		if err != nil {
			s.logf("save file: %v", err)
			s.notify.Notify(feedback.Error, "Save failed", err.Error())
			s.status.SetStatus("Save failed", feedback.Failed)
			return
		}
		s.logf("saved %s", path)
		s.notify.Notify(feedback.Success, "File saved!", fmt.Sprintf("%s saved with %s.", name, files.Count(code)))
		s.status.SetStatus("File saved as "+name, feedback.Done)
	})
}

// Format pretty-prints the document. Large documents are confirmed first;
// the formatter runs through the session's Runner.
func (s *Session) Format(ctx context.Context) {
	code := s.w.Value()
	if _, err := format.Check(code, s.lang); err != nil {
		if errors.Is(err, format.ErrEmpty) {
			s.notify.Notify(feedback.Info, "Nothing to format", "Please write some code first.")
		} else {
			s.notify.Notify(feedback.Warning, "Formatting not supported",
				fmt.Sprintf("Formatting is not supported for %s yet. Only HTML, CSS, and JavaScript are supported.", s.lang.Upper()))
		}
		return
	}
	if format.NeedsConfirm(code) {
		s.prompt.Confirm(feedback.Prompt{
			Title:       "Format Code",
			Body:        "You are about to format a large code block. This action cannot be undone. Are you sure you want to continue?",
			ConfirmText: "Yes, format code",
			CancelText:  "Cancel",
		}, func(ok bool) {
			if ok {
				s.performFormat(ctx, code)
			}
		})
		return
	}
	s.performFormat(ctx, code)
}

func (s *Session) performFormat(ctx context.Context, code string) {
	l := s.lang
	s.status.SetStatus("Formatting...", feedback.Busy)
	s.run(func() func() {
		out, err := format.Format(ctx, s.format, code, l)
		return func() {
			if errors.Is(err, format.ErrUnavailable) {
				s.logf("format: %v", err)
				s.notify.Notify(feedback.Error, "Formatter not found",
					"prettier not found; install it or set the prettier command in the config.")
				s.status.SetStatus("Formatter unavailable", feedback.Failed)
				return
			}
			if err != nil {
				s.logf("format: %v", err)
				s.notify.Notify(feedback.Error, "Formatting Error", "Could not format the code. Please check for syntax errors.")
				s.status.SetStatus("Format error", feedback.Failed)
				return
			}
			if s.w.Value() != code {
				// Edited while the formatter ran; keep the newer text.
				s.status.SetStatus("Format skipped: document changed", feedback.Failed)
				return
			}
			s.SetValue(out)
			s.notify.Notify(feedback.Success, "Code formatted!", "Your code has been successfully formatted.")
			s.status.SetStatus("Code formatted", feedback.Done)
		}
	})
}

// Copy puts the document on the clipboard.
func (s *Session) Copy() {
	code := s.w.Value()
	if strings.TrimSpace(code) == "" {
		s.notify.Notify(feedback.Info, "Nothing to copy", "Please write some code first.")
		return
	}
	if s.clipboard == nil {
		s.notify.Notify(feedback.Error, "Copy failed", "Could not copy to clipboard. Please try again.")
		return
	}
	if err := s.clipboard(code); err != nil {
		s.logf("clipboard: %v", err)
		s.notify.Notify(feedback.Error, "Copy failed", "Could not copy to clipboard. Please try again.")
		return
	}
	s.notify.Notify(feedback.Success, "Copied!", files.Count(code).String()+" copied to clipboard.")
	s.status.SetStatus("Code copied to clipboard", feedback.Done)
}

// ToggleComment comments or uncomments line row (zero based).
func (s *Session) ToggleComment(row int) {
	lines := strings.Split(s.w.Value(), "\n")
	if row < 0 || row >= len(lines) {
		return
	}
	lines[row] = s.lang.Comment().ToggleLine(lines[row])
	s.SetValue(strings.Join(lines, "\n"))
	s.status.SetStatus("Line comment toggled", feedback.Done)
}

// LoadState is the manual load from storage.
func (s *Session) LoadState() { s.state.Restore(persist.Manual) }

// ClearState removes the stored state after a confirmation.
func (s *Session) ClearState() { s.state.Clear() }

// SaveState saves immediately, bypassing the debounce.
func (s *Session) SaveState() { s.state.SaveNow() }

// Flush writes a pending autosave. Call before exit.
func (s *Session) Flush() { s.state.Flush() }

// StorageChanged is called when the storage file was written. Writes of
// another session are announced; nothing is merged.
func (s *Session) StorageChanged() {
	st, ok, err := s.state.Peek()
	if err != nil || !ok {
		return
	}
	if st.Timestamp == s.state.LastSaved() || st.Code == s.w.Value() {
		return
	}
	s.logf("storage written by another session at %s", st.Timestamp)
	s.notify.Notify(feedback.Info, "Storage changed", "Another session saved its state. Load it with ctrl+l.")
}
