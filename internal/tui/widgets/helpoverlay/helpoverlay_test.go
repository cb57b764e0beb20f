package helpoverlay

import (
    "strings"
    "testing"

    "github.com/charmbracelet/bubbles/key"

    "codepad/internal/tui/state"
)

type testKeys struct{ save, quit key.Binding }

func (k testKeys) ShortHelp() []key.Binding  { return []key.Binding{k.save} }
func (k testKeys) FullHelp() [][]key.Binding { return [][]key.Binding{{k.save}, {k.quit}} }

func TestHelpOverlayListsBindings(t *testing.T) {
    km := testKeys{
        save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save file")),
        quit: key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit")),
    }
    out := NewHelpOverlay().View(state.UIState{Width: 100, Wrap: true, View: state.EditorOnly}, km)
    for _, want := range []string{"Keyboard shortcuts", "ctrl+s", "save file", "quit", "View: editor", "Wrap: on"} {
        if !strings.Contains(out, want) { t.Fatalf("help overlay missing %q:\n%s", want, out) }
    }
}
