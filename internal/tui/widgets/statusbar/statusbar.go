package statusbar

import (
    "strings"

    "github.com/charmbracelet/lipgloss"

    "codepad/internal/feedback"
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

type StatusBar struct {
    NoColor bool
}

func NewStatusBar(noColor bool) StatusBar { return StatusBar{NoColor: noColor} }

var icons = map[feedback.Level]string{
    feedback.Ready:  "●",
    feedback.Busy:   "…",
    feedback.Done:   "✓",
    feedback.Failed: "✗",
}

// View composes the footer: status on the left, chips and the help hint on
// the right, padded to the terminal width.
func (b StatusBar) View(s state.UIState, chips string) string {
    p := util.ThemePalette(s.Dark)
    status := s.Status
    if status == "" {
        status = "Ready"
    }
    left := icons[s.Level] + " " + status
    if s.Notice != "" {
        left += "  " + s.Notice
    }
    right := "F1 help"
    if chips != "" {
        right = chips + "  " + right
    }
    if !b.NoColor {
        left = lipgloss.NewStyle().Foreground(levelColor(s.Level, p)).Render(left)
        right = lipgloss.NewStyle().Foreground(p.Muted).Render(right)
    }
    gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
    if gap < 1 {
        gap = 1
    }
    return left + strings.Repeat(" ", gap) + right
}

func levelColor(l feedback.Level, p util.Palette) lipgloss.Color {
    switch l {
    case feedback.Busy:
        return p.Primary
    case feedback.Done:
        return p.Success
    case feedback.Failed:
        return p.Danger
    default:
        return p.Muted
    }
}
