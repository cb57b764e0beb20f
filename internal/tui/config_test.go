package tui

import (
    "os"
    "path/filepath"
    "strings"
    "testing"

    tea "github.com/charmbracelet/bubbletea"

    "codepad/internal/config"
)

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func cursorTo(t *testing.T, m *collectModel, label string) {
    t.Helper()
    for i, f := range m.fields {
        if f.label == label { m.cursor = i; return }
    }
    t.Fatalf("no field %q", label)
}

func TestCollectCyclesEnums(t *testing.T) {
    c := config.Default(t.TempDir())
    m := newCollectModel(c)
    cursorTo(t, m, "Theme")
    m.Update(tea.KeyMsg{Type: tea.KeyRight})
    if c.Theme != "dark" { t.Fatalf("expected dark, got %s", c.Theme) }
    m.Update(tea.KeyMsg{Type: tea.KeyLeft})
    if c.Theme != "light" { t.Fatalf("expected light, got %s", c.Theme) }
    cursorTo(t, m, "Language")
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    if c.Language != "css" { t.Fatalf("enter should cycle enums, got %s", c.Language) }
}

func TestCollectEditsIntField(t *testing.T) {
    c := config.Default(t.TempDir())
    m := newCollectModel(c)
    cursorTo(t, m, "Autosave delay (ms)")
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    if !m.editing { t.Fatalf("expected edit mode") }
    m.input.SetValue("abc")
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    if !m.editing || !strings.Contains(m.msg, "not a non-negative number") { t.Fatalf("expected validation error, msg=%q", m.msg) }
    m.input.SetValue("250")
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    if m.editing || c.AutosaveDelayMs != 250 { t.Fatalf("expected 250 committed, got %d", c.AutosaveDelayMs) }
}

func TestCollectPathSuggestions(t *testing.T) {
    dir := t.TempDir()
    if err := os.Mkdir(filepath.Join(dir, "snippets"), 0755); err != nil { t.Fatal(err) }
    c := config.Default(dir)
    m := newCollectModel(c)
    cursorTo(t, m, "Save directory")
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    m.input.SetValue(filepath.Join(dir, "snip"))
    m.computeSuggestions()
    if len(m.suggest) != 1 || !strings.HasSuffix(m.suggest[0], "snippets") { t.Fatalf("unexpected suggestions %v", m.suggest) }
    m.Update(tea.KeyMsg{Type: tea.KeyTab})
    m.Update(tea.KeyMsg{Type: tea.KeyEnter})
    if !strings.HasSuffix(c.SaveDir, "snippets") { t.Fatalf("expected completed path, got %q", c.SaveDir) }
}

func TestCollectSaveAndCancel(t *testing.T) {
    c := config.Default(t.TempDir())
    m := newCollectModel(c)
    _, cmd := m.Update(keyRunes("s"))
    if !m.done || cmd == nil { t.Fatalf("expected save to finish the form") }

    m = newCollectModel(c)
    m.Update(keyRunes("q"))
    if !m.cancelled { t.Fatalf("expected cancel") }
}

func TestCollectViewShowsFields(t *testing.T) {
    m := newCollectModel(config.Default(t.TempDir()))
    out := m.View()
    for _, want := range []string{"codepad settings", "Storage file", "‹ light ›", "s save"} {
        if !strings.Contains(out, want) { t.Fatalf("view missing %q", want) }
    }
}
