package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"codepad/internal/feedback"
	"codepad/internal/format"
	"codepad/internal/lang"
	"codepad/internal/persist"
	"codepad/internal/storage"
	"codepad/internal/tui/state"
)

func newTestModel(t *testing.T, opts Options) *model {
	t.Helper()
	if opts.Store == nil {
		opts.Store = storage.NewMemStore()
	}
	if opts.Formatter == nil {
		opts.Formatter = format.Builtin{}
	}
	if opts.Language == "" {
		opts.Language = lang.HTML
	}
	m, err := newModel(opts)
	if err != nil {
		t.Fatalf("newModel: %v", err)
	}
	t.Cleanup(m.cancel)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func typeText(m *model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func hasToast(m *model, title string) bool {
	for _, t := range m.toasts {
		if t.Title == title {
			return true
		}
	}
	return false
}

func TestTypingRendersAndSchedulesSave(t *testing.T) {
	m := newTestModel(t, Options{})
	typeText(m, "<p>hello</p>")
	if got := m.ed.Value(); got != "<p>hello</p>" {
		t.Fatalf("editor value %q", got)
	}
	if text, _ := m.text.Text(); !strings.Contains(text, "hello") {
		t.Fatalf("preview not updated: %q", text)
	}
	if !m.sess.Controller().Pending() {
		t.Fatalf("expected a pending autosave")
	}
	if !strings.Contains(m.View(), "Unsaved") {
		t.Fatalf("footer should show the pending save")
	}
}

func TestPasteRendersAndSchedulesSave(t *testing.T) {
	m := newTestModel(t, Options{Paste: func() (string, error) { return "<p>pasted</p>", nil }})
	cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlV})
	if cmd == nil {
		t.Fatalf("ctrl+v should read the clipboard")
	}
	m.Update(cmd())
	if got := m.ed.Value(); got != "<p>pasted</p>" {
		t.Fatalf("editor value %q", got)
	}
	if !m.sess.Controller().Pending() {
		t.Fatalf("paste changed the document but no autosave is pending")
	}
	if text, _ := m.text.Text(); !strings.Contains(text, "pasted") {
		t.Fatalf("preview not updated after paste: %q", text)
	}
}

func TestPasteMessageThroughUpdate(t *testing.T) {
	store := storage.NewMemStore()
	m := newTestModel(t, Options{Store: store})
	typeText(m, "<p>a</p>")
	m.sess.Controller().Flush()
	m.Update(pasteMsg("<p>b</p>"))
	if !m.sess.Controller().Pending() {
		t.Fatalf("expected a pending autosave after paste")
	}
	if text, _ := m.text.Text(); !strings.Contains(text, "b") {
		t.Fatalf("preview not updated: %q", text)
	}
	// quitting right after a paste must still persist it
	m.sess.Flush()
	raw, _, _ := store.Get(persist.DefaultKey)
	st, err := persist.Decode(raw)
	if err != nil || !strings.Contains(st.Code, "<p>b</p>") {
		t.Fatalf("pasted text not saved: %+v err=%v", st, err)
	}
}

func TestPasteFailureNotifies(t *testing.T) {
	m := newTestModel(t, Options{Paste: func() (string, error) { return "", errors.New("no clipboard") }})
	m.Update(m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlV})())
	if !hasToast(m, "Paste failed") || m.ed.Value() != "" {
		t.Fatalf("expected a failure toast and an untouched document")
	}
}

func TestAutosaveRunsOnLoop(t *testing.T) {
	store := storage.NewMemStore()
	m := newTestModel(t, Options{Store: store})
	typeText(m, "body")
	// The debouncer fires through the loop; deliver its callback by hand.
	m.sess.Controller().Flush()
	raw, ok, err := store.Get(persist.DefaultKey)
	if err != nil || !ok {
		t.Fatalf("expected saved state, ok=%v err=%v", ok, err)
	}
	st, err := persist.Decode(raw)
	if err != nil || st.Code != "body" {
		t.Fatalf("unexpected state %+v err=%v", st, err)
	}
}

func TestNewFileConfirmsWhenNotEmpty(t *testing.T) {
	m := newTestModel(t, Options{})
	typeText(m, "keep me")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.ui.Overlay != state.ConfirmOverlay {
		t.Fatalf("expected confirmation overlay, got %v", m.ui.Overlay)
	}
	if !strings.Contains(m.View(), "Create New File") {
		t.Fatalf("modal not rendered")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.ed.Value() != "keep me" || m.ui.Overlay != state.NoOverlay {
		t.Fatalf("cancel must keep the document and close the modal")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.ed.Value() != "" {
		t.Fatalf("expected empty document, got %q", m.ed.Value())
	}
	if m.ui.Status != "New file created" {
		t.Fatalf("unexpected status %q", m.ui.Status)
	}
}

func TestManualLoadShowsDiff(t *testing.T) {
	store := storage.NewMemStore()
	raw, _ := persist.Encode(persist.EditorState{Code: "<p>saved</p>", Language: "html", Timestamp: "2024-01-02T03:04:05.000Z"})
	store.Set(persist.DefaultKey, raw)

	m := newTestModel(t, Options{Store: store})
	typeText(m, "<p>current</p>")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.prompts) != 1 || m.prompts[0].diff == nil {
		t.Fatalf("expected a prompt carrying the diff")
	}
	out := m.View()
	if !strings.Contains(out, "Load from Local Storage") || !strings.Contains(out, "Saved") {
		t.Fatalf("diff dialog not rendered:\n%s", out)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.ui.Diff != state.SideBySide {
		t.Fatalf("ctrl+d should switch the diff mode")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if m.ed.Value() != "<p>saved</p>" {
		t.Fatalf("expected restored code, got %q", m.ed.Value())
	}
	if !hasToast(m, "Loaded!") {
		t.Fatalf("expected Loaded! toast")
	}
}

func TestAutoRestoreOnStart(t *testing.T) {
	store := storage.NewMemStore()
	raw, _ := persist.Encode(persist.EditorState{Code: "restored", Language: "html", IsDarkMode: true, Timestamp: "2024-01-02T03:04:05.000Z"})
	store.Set(persist.DefaultKey, raw)
	m := newTestModel(t, Options{Store: store, Restore: true})
	if m.ed.Value() != "restored" || !m.ui.Dark {
		t.Fatalf("expected restored text and dark theme, got %q dark=%v", m.ed.Value(), m.ui.Dark)
	}
}

func TestFileArgumentSkipsRestore(t *testing.T) {
	store := storage.NewMemStore()
	raw, _ := persist.Encode(persist.EditorState{Code: "stored", Language: "html", Timestamp: "2024-01-02T03:04:05.000Z"})
	store.Set(persist.DefaultKey, raw)
	path := filepath.Join(t.TempDir(), "app.css")
	if err := os.WriteFile(path, []byte("a { color: red }"), 0644); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, Options{Store: store, Restore: true, File: path})
	if m.ed.Value() != "a { color: red }" || m.sess.Language() != lang.CSS {
		t.Fatalf("file not loaded: %q %s", m.ed.Value(), m.sess.Language())
	}
	if m.ui.Status != "File opened: app.css" {
		t.Fatalf("unexpected status %q", m.ui.Status)
	}
}

func TestFormatThroughRunner(t *testing.T) {
	m := newTestModel(t, Options{})
	typeText(m, "<div><p>hi</p></div>")
	m.queued = nil
	m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.ui.Status != "Formatting..." || len(m.queued) != 1 {
		t.Fatalf("expected busy status and one queued job, got %q %d", m.ui.Status, len(m.queued))
	}
	msg := m.queued[0]()
	m.queued = nil
	m.Update(msg)
	if v := m.ed.Value(); !strings.Contains(v, "\n") || !strings.Contains(v, "<p>") {
		t.Fatalf("expected formatted html, got %q", v)
	}
	if !hasToast(m, "Code formatted!") {
		t.Fatalf("expected success toast")
	}
}

func TestStatusResetUsesLatestSeq(t *testing.T) {
	m := newTestModel(t, Options{})
	m.SetStatus("first", feedback.Done)
	old := m.statusSeq
	m.SetStatus("second", feedback.Done)
	m.Update(statusResetMsg(old))
	if m.ui.Status != "second" {
		t.Fatalf("stale reset must be ignored, status %q", m.ui.Status)
	}
	m.Update(statusResetMsg(m.statusSeq))
	if m.ui.Status != "Ready" {
		t.Fatalf("expected Ready, got %q", m.ui.Status)
	}
}

func TestToastsExpire(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Notify(feedback.Info, "one", "")
	m.Notify(feedback.Info, "two", "")
	m.Update(toastExpiredMsg(m.toasts[0].ID))
	if len(m.toasts) != 1 || m.toasts[0].Title != "two" {
		t.Fatalf("unexpected toasts %+v", m.toasts)
	}
}

func TestViewCycleAndHelp(t *testing.T) {
	m := newTestModel(t, Options{})
	m.Update(tea.KeyMsg{Type: tea.KeyF2})
	if m.ui.View != state.EditorOnly {
		t.Fatalf("expected editor only, got %v", m.ui.View)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF1})
	if m.ui.Overlay != state.HelpOverlay || !strings.Contains(m.View(), "Keyboard shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.ui.Overlay != state.NoOverlay {
		t.Fatalf("esc should close help")
	}
}

func TestFooterCollapses(t *testing.T) {
	m := newTestModel(t, Options{NoColor: true})
	if !strings.Contains(m.View(), "[HTML]") {
		t.Fatalf("expanded footer should show the language chip")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	if !m.ui.Compact || strings.Contains(m.View(), "[HTML]") {
		t.Fatalf("F3 should collapse the footer")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	if m.ui.Compact {
		t.Fatalf("second F3 should expand the footer")
	}
}

func TestToggleComment(t *testing.T) {
	m := newTestModel(t, Options{Language: lang.Python})
	typeText(m, "print(1)")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlUnderscore})
	if got := m.ed.Value(); !strings.HasPrefix(got, "#") {
		t.Fatalf("expected commented line, got %q", got)
	}
}

func TestStorageChangedAnnouncesForeignWrites(t *testing.T) {
	store := storage.NewMemStore()
	m := newTestModel(t, Options{Store: store})
	typeText(m, "mine")
	raw, _ := persist.Encode(persist.EditorState{Code: "theirs", Language: "html", Timestamp: "2030-01-01T00:00:00.000Z"})
	store.Set(persist.DefaultKey, raw)
	m.Update(storageChangedMsg{})
	if !hasToast(m, "Storage changed") {
		t.Fatalf("expected Storage changed toast")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if !m.quitting || cmd == nil {
		t.Fatalf("expected quit")
	}
}
