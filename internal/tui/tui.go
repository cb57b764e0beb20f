package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codepad/internal/feedback"
	"codepad/internal/files"
	"codepad/internal/format"
	"codepad/internal/lang"
	"codepad/internal/persist"
	"codepad/internal/preview"
	"codepad/internal/session"
	"codepad/internal/storage"
	"codepad/internal/tui/state"
	"codepad/internal/tui/util"
	"codepad/internal/tui/views/confirm"
	"codepad/internal/tui/views/footer"
	previewpane "codepad/internal/tui/views/preview"
	"codepad/internal/tui/views/toasts"
	"codepad/internal/tui/widgets/diff"
	"codepad/internal/tui/widgets/editor"
	"codepad/internal/tui/widgets/helpoverlay"
)

const (
	toastTTL      = 2 * time.Second
	statusDoneTTL = 2 * time.Second
	statusFailTTL = 3 * time.Second
	maxToasts     = 4
	minPaneWidth  = 30
)

// Options configures the editor page.
type Options struct {
	Store       storage.Store
	StoragePath string // watched for writes of other sessions; empty disables
	Key         string
	Delay       time.Duration
	Formatter   format.Formatter
	Hub         *preview.Hub // browser preview; nil when off
	SaveDir     string
	Language    lang.Language
	Dark        bool
	View        state.ViewMode
	File        string // opened at start instead of restoring
	Restore     bool
	NoColor     bool
	Paste       func() (string, error) // clipboard reader; clipboard.ReadAll when nil
	Logf        func(format string, args ...any)
}

// Run shows the editor and blocks until the user quits. A pending autosave
// is written before it returns.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.loop.p = p
	if opts.StoragePath != "" {
		w, err := storage.Watch(opts.StoragePath, func() { m.loop.send(storageChangedMsg{}) }, m.logf)
		if err != nil {
			m.logf("storage watch disabled: %v", err)
		} else {
			defer w.Close()
		}
	}
	_, err = p.Run()
	m.cancel()
	m.sess.Flush()
	return err
}

// ===== Event loop plumbing =====

// runMsg carries a timer callback onto the event loop.
type runMsg func()

// applyMsg carries the result of background work onto the event loop.
type applyMsg func()

type toastExpiredMsg int

type statusResetMsg int

type storageChangedMsg struct{}

// pasteMsg carries clipboard text to insert at the cursor.
type pasteMsg string

type pasteFailedMsg struct{ err error }

// loop schedules persist timers so that their callbacks run inside Update.
type loop struct {
	p *tea.Program
}

func (l *loop) send(msg tea.Msg) {
	if l.p != nil {
		l.p.Send(msg)
	}
}

func (l *loop) AfterFunc(d time.Duration, f func()) persist.Timer {
	return time.AfterFunc(d, func() { l.send(runMsg(f)) })
}

// ===== Model =====

type pending struct {
	prompt feedback.Prompt
	diff   *diffPair
	then   func(ok bool)
}

type diffPair struct {
	before, after string
}

type model struct {
	opts   Options
	sess   *session.Session
	ed     *editor.Editor
	pane   *previewpane.Pane
	text   *preview.TextPane
	help   helpoverlay.HelpOverlay
	picker filepicker.Model
	keys   keyMap
	ui     state.UIState
	win    tea.WindowSizeMsg
	loop   *loop
	logf   func(format string, args ...any)
	ctx    context.Context
	cancel context.CancelFunc

	toasts   []toasts.Toast
	toastSeq int

	prompts  []pending
	yes      bool
	lastDiff *diffPair

	statusSeq int
	queued    []tea.Cmd
	quitting  bool
}

func newModel(opts Options) (*model, error) {
	m := &model{
		opts: opts,
		ed:   editor.NewEditor(),
		pane: previewpane.NewPane(),
		text: &preview.TextPane{},
		help: helpoverlay.NewHelpOverlay(),
		keys: defaultKeys(),
		loop: &loop{},
		logf: opts.Logf,
	}
	if m.logf == nil {
		m.logf = func(string, ...any) {}
	}
	if m.opts.Paste == nil {
		m.opts.Paste = clipboard.ReadAll
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.ui = state.SetView(state.ResetStatus(state.UIState{MinCol: minPaneWidth, Dark: opts.Dark}), opts.View)

	initial, l, restore, opened := "", opts.Language, opts.Restore, ""
	if opts.File != "" {
		o, err := files.Open(opts.File)
		if err != nil {
			m.cancel()
			return nil, err
		}
		initial, l, restore, opened = o.Text, o.Language, false, o.Name
	}

	var surface preview.Surface = m.text
	if opts.Hub != nil {
		surface = preview.Fanout{m.text, opts.Hub}
	}
	m.sess = session.New(m.ed, session.Options{
		Store:     opts.Store,
		Key:       opts.Key,
		Delay:     opts.Delay,
		Scheduler: m.loop,
		Surface:   surface,
		Formatter: opts.Formatter,
		Clipboard: clipboard.WriteAll,
		SaveDir:   opts.SaveDir,
		Language:  l,
		Dark:      opts.Dark,
		Notifier:  feedback.Logged(m, m.logf),
		Prompter:  m,
		Status:    m,
		Differ:    m.diff,
		Run:       m.run,
		Logf:      m.logf,
	})
	m.sess.Start(initial, restore)
	if opened != "" {
		m.SetStatus("File opened: "+opened, feedback.Done)
	}
	return m, nil
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.drain()...)
}

// queue schedules cmd to be returned from the current Update.
func (m *model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

func (m *model) drain() []tea.Cmd {
	out := m.queued
	m.queued = nil
	return out
}

// ===== Sinks =====

func (m *model) Notify(kind feedback.Kind, title, body string) {
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toasts.Toast{ID: id, Kind: kind, Title: title, Body: body})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	m.queue(tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg(id) }))
}

func (m *model) SetStatus(text string, level feedback.Level) {
	m.ui = state.SetStatus(m.ui, text, level)
	m.statusSeq++
	seq := m.statusSeq
	var ttl time.Duration
	switch level {
	case feedback.Done:
		ttl = statusDoneTTL
	case feedback.Failed:
		ttl = statusFailTTL
	default:
		return
	}
	m.queue(tea.Tick(ttl, func(time.Time) tea.Msg { return statusResetMsg(seq) }))
}

func (m *model) Confirm(p feedback.Prompt, then func(ok bool)) {
	m.prompts = append(m.prompts, pending{prompt: p, diff: m.lastDiff, then: then})
	m.lastDiff = nil
	if len(m.prompts) == 1 {
		m.yes = true
		m.ui = state.OpenOverlay(m.ui, state.ConfirmOverlay)
	}
}

// diff renders a restore diff and remembers the texts so the dialog can
// re-render it when the diff mode changes.
func (m *model) diff(before, after string) string {
	m.lastDiff = &diffPair{before: before, after: after}
	return diff.NewDiffView("Editor", "Saved").View(m.ui, before, after)
}

func (m *model) run(work func() (apply func())) {
	m.queue(func() tea.Msg { return applyMsg(work()) })
}

func (m *model) answer(ok bool) {
	if len(m.prompts) == 0 {
		return
	}
	head := m.prompts[0]
	m.prompts = m.prompts[1:]
	head.then(ok)
	if len(m.prompts) > 0 {
		m.yes = true
		return
	}
	if m.ui.Overlay == state.ConfirmOverlay {
		m.ui = state.CloseOverlay(m.ui)
	}
}

// ===== Update =====

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.win = msg
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		if m.ui.Overlay == state.PickerOverlay {
			m.queue(m.updatePicker(msg))
		}
	case tea.KeyMsg:
		m.queue(m.handleKey(msg))
	case runMsg:
		msg()
	case applyMsg:
		if msg != nil {
			msg()
		}
	case toastExpiredMsg:
		for i, t := range m.toasts {
			if t.ID == int(msg) {
				m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
				break
			}
		}
	case statusResetMsg:
		if int(msg) == m.statusSeq {
			m.ui = state.ResetStatus(m.ui)
		}
	case storageChangedMsg:
		m.sess.StorageChanged()
	case pasteMsg:
		if m.ed.InsertString(string(msg)) {
			m.sess.OnChange()
		}
	case pasteFailedMsg:
		m.logf("paste: %v", msg.err)
		m.Notify(feedback.Error, "Paste failed", "Could not read the clipboard.")
	default:
		if m.ui.Overlay == state.PickerOverlay {
			m.queue(m.updatePicker(msg))
		}
		changed, cmd := m.ed.Update(msg)
		if changed {
			m.sess.OnChange()
		}
		m.queue(cmd)
	}
	m.layout()
	cmds := m.drain()
	if m.quitting {
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.ui.Notice = ""
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return nil
	}
	switch m.ui.Overlay {
	case state.ConfirmOverlay:
		m.confirmKey(msg)
		return nil
	case state.HelpOverlay:
		if key.Matches(msg, m.keys.Close, m.keys.Help) {
			m.ui = state.CloseOverlay(m.ui)
		}
		return nil
	case state.PickerOverlay:
		if key.Matches(msg, m.keys.Close) {
			m.ui = state.CloseOverlay(m.ui)
			return nil
		}
		return m.updatePicker(msg)
	}

	switch {
	case key.Matches(msg, m.keys.New):
		m.sess.NewFile()
	case key.Matches(msg, m.keys.Open):
		m.sess.RequestOpen(m.openPicker)
	case key.Matches(msg, m.keys.SaveFile):
		m.sess.SaveFile()
	case key.Matches(msg, m.keys.Format):
		m.sess.Format(m.ctx)
	case key.Matches(msg, m.keys.Comment):
		m.sess.ToggleComment(m.ed.Row())
	case key.Matches(msg, m.keys.Copy):
		m.sess.Copy()
	case key.Matches(msg, m.keys.Paste):
		if m.ui.View == state.PreviewOnly {
			return nil
		}
		read := m.opts.Paste
		return func() tea.Msg {
			text, err := read()
			if err != nil {
				return pasteFailedMsg{err}
			}
			return pasteMsg(text)
		}
	case key.Matches(msg, m.keys.Run):
		m.sess.RunPreview()
	case key.Matches(msg, m.keys.Theme):
		m.sess.ToggleTheme()
	case key.Matches(msg, m.keys.Language):
		m.sess.ChangeLanguage(m.sess.Language().Next())
	case key.Matches(msg, m.keys.Load):
		m.sess.LoadState()
	case key.Matches(msg, m.keys.SaveNow):
		m.sess.SaveState()
	case key.Matches(msg, m.keys.Clear):
		m.sess.ClearState()
	case key.Matches(msg, m.keys.View):
		m.ui = state.CycleView(m.ui)
		if m.ui.View == state.PreviewOnly {
			m.ed.Blur()
			return nil
		}
		return m.ed.Focus()
	case key.Matches(msg, m.keys.Wrap):
		m.ui = state.ToggleWrap(m.ui)
	case key.Matches(msg, m.keys.Footer):
		m.ui = state.ToggleFooter(m.ui)
	case key.Matches(msg, m.keys.Help):
		m.ui = state.OpenOverlay(m.ui, state.HelpOverlay)
	default:
		if m.ui.View == state.PreviewOnly {
			return m.pane.Update(msg)
		}
		changed, cmd := m.ed.Update(msg)
		if changed {
			m.sess.OnChange()
		}
		return cmd
	}
	return nil
}

func (m *model) confirmKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "y", "Y":
		m.answer(true)
	case "n", "N", "esc":
		m.answer(false)
	case "enter":
		m.answer(m.yes)
	case "left", "right", "tab", "shift+tab", "h", "l":
		m.yes = !m.yes
	case "ctrl+d":
		m.ui = state.ToggleDiff(m.ui)
	case "[":
		m.ui = state.ScrollLeft(m.ui, false)
	case "{":
		m.ui = state.ScrollLeft(m.ui, true)
	case "]":
		m.ui = state.ScrollRight(m.ui, false)
	case "}":
		m.ui = state.ScrollRight(m.ui, true)
	}
}

func (m *model) openPicker() {
	fp := filepicker.New()
	fp.AllowedTypes = lang.AcceptedExtensions
	fp.AutoHeight = true
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	m.picker = fp
	m.ui = state.OpenOverlay(m.ui, state.PickerOverlay)
	m.queue(m.picker.Init())
	if m.win.Width > 0 {
		m.queue(m.updatePicker(m.win))
	}
}

func (m *model) updatePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.ui = state.CloseOverlay(m.ui)
		m.sess.OpenFile(path)
		return cmd
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.Notify(feedback.Warning, "Unsupported file", filepath.Base(path)+" is not a supported file type.")
	}
	return cmd
}

// layout sizes the panes for the current window, toasts and view mode.
func (m *model) layout() {
	m.ui.Dark = m.sess.DarkMode()
	if m.ui.Width == 0 {
		return
	}
	body := m.bodyHeight()
	edW, pvW := state.PaneWidths(m.ui)
	if edW > 0 {
		m.ed.SetSize(edW, body)
	}
	m.pane.SetSize(pvW, body-1)
	text, version := m.text.Text()
	m.pane.Sync(text, version, m.ui)
}

func (m *model) bodyHeight() int {
	h := m.ui.Height - 1
	if tv := m.toastView(); tv != "" {
		h -= lipgloss.Height(tv)
	}
	if h < 3 {
		h = 3
	}
	return h
}

// ===== View =====

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.ui.Width == 0 {
		return "Loading..."
	}
	body := m.bodyHeight()
	var content string
	switch m.ui.Overlay {
	case state.HelpOverlay:
		content = m.center(m.help.View(m.ui, m.keys), body)
	case state.ConfirmOverlay:
		if len(m.prompts) == 0 {
			content = m.panes(body)
			break
		}
		head := m.prompts[0]
		p := head.prompt
		if head.diff != nil {
			p.Detail = diff.NewDiffView("Editor", "Saved").View(m.ui, head.diff.before, head.diff.after)
		}
		content = m.center(confirm.Render(m.ui, p, m.yes), body)
	case state.PickerOverlay:
		pal := util.ThemePalette(m.ui.Dark)
		title := lipgloss.NewStyle().Bold(true).Foreground(pal.Primary).Render("Open file")
		hint := lipgloss.NewStyle().Foreground(pal.Muted).Render("enter open · esc cancel")
		content = title + "  " + hint + "\n\n" + m.picker.View()
	default:
		content = m.panes(body)
	}
	content = lipgloss.NewStyle().Height(body).MaxHeight(body).Render(content)

	parts := []string{content}
	if tv := m.toastView(); tv != "" {
		parts = append(parts, lipgloss.PlaceHorizontal(m.ui.Width, lipgloss.Right, tv))
	}
	parts = append(parts, footer.Render(m.ui, m.footerInfo(), m.opts.NoColor))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *model) center(s string, height int) string {
	return lipgloss.Place(m.ui.Width, height, lipgloss.Center, lipgloss.Center, s)
}

func (m *model) panes(height int) string {
	switch m.ui.View {
	case state.EditorOnly:
		return m.ed.View(m.ui)
	case state.PreviewOnly:
		return m.pane.View(m.ui)
	}
	edW, pvW := state.PaneWidths(m.ui)
	pal := util.ThemePalette(m.ui.Dark)
	left := lipgloss.NewStyle().Width(edW).Render(m.ed.View(m.ui))
	sep := lipgloss.NewStyle().Foreground(pal.Border).Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
	right := lipgloss.NewStyle().Width(pvW).Render(m.pane.View(m.ui))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func (m *model) toastView() string {
	return toasts.Render(m.toasts, m.ui)
}

func (m *model) footerInfo() util.Footer {
	clients := -1
	if m.opts.Hub != nil {
		clients = m.opts.Hub.Status().Clients
	}
	return util.Footer{
		Language: m.sess.Language().String(),
		Dark:     m.ui.Dark,
		View:     m.ui.View,
		Pending:  m.sess.Controller().Pending(),
		Clients:  clients,
		Text:     m.ed.Value(),
	}
}
