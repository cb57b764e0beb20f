package helpoverlay

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/lipgloss"

    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

type HelpOverlay struct {
    h help.Model
}

func NewHelpOverlay() HelpOverlay {
    h := help.New()
    h.ShowAll = true
    return HelpOverlay{h: h}
}

// View returns the grouped key help in a bordered box, with the current
// layout settings underneath.
func (o HelpOverlay) View(s state.UIState, km help.KeyMap) string {
    p := util.ThemePalette(s.Dark)
    o.h.Width = s.Width - 6
    wrap := "off"
    if s.Wrap {
        wrap = "on"
    }
    diff := "unified"
    if s.Diff == state.SideBySide {
        diff = "side-by-side"
    }
    var b strings.Builder
    b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Render("Keyboard shortcuts"))
    b.WriteString("\n\n")
    b.WriteString(o.h.View(km))
    b.WriteString("\n\n")
    fmt.Fprintf(&b, "View: %s   Wrap: %s   Diff: %s", s.View, wrap, diff)
    b.WriteString("\n")
    b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Render("esc or F1 to close"))
    return lipgloss.NewStyle().
        Border(lipgloss.RoundedBorder()).
        BorderForeground(p.Border).
        Padding(1, 2).
        Render(b.String())
}
