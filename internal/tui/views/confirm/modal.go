package confirm

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"

    "codepad/internal/feedback"
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

// Render draws a confirmation dialog. yes selects which button is focused.
func Render(s state.UIState, p feedback.Prompt, yes bool) string {
    pal := util.ThemePalette(s.Dark)
    width := s.Width - 8
    if width > 100 {
        width = 100
    }
    if width < 30 {
        width = 30
    }

    var b strings.Builder
    b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(pal.Primary).Render(p.Title))
    b.WriteString("\n\n")
    b.WriteString(lipgloss.NewStyle().Width(width).Render(p.Body))
    if p.Detail != "" {
        b.WriteString("\n\n")
        b.WriteString(clampLines(p.Detail, s.Height-14))
    }
    b.WriteString("\n\n")

    confirmText, cancelText := p.ConfirmText, p.CancelText
    if confirmText == "" {
        confirmText = "Yes"
    }
    if cancelText == "" {
        cancelText = "Cancel"
    }
    on := lipgloss.NewStyle().Padding(0, 2).Bold(true).Background(pal.Accent).Foreground(lipgloss.Color("#FFFFFF"))
    off := lipgloss.NewStyle().Padding(0, 2).Foreground(pal.Muted)
    yesBtn, noBtn := off.Render(confirmText), on.Render(cancelText)
    if yes {
        yesBtn, noBtn = on.Render(confirmText), off.Render(cancelText)
    }
    b.WriteString(yesBtn + "  " + noBtn)
    b.WriteString("\n\n")
    hint := "y/enter confirm · n/esc cancel · ←/→ select"
    if p.Detail != "" {
        hint += " · ctrl+d diff mode · [/] scroll"
    }
    b.WriteString(lipgloss.NewStyle().Foreground(pal.Muted).Render(hint))

    return lipgloss.NewStyle().
        Border(lipgloss.RoundedBorder()).
        BorderForeground(pal.Accent).
        Padding(1, 2).
        Render(b.String())
}

// clampLines keeps at most max lines of s and says how many were cut.
func clampLines(s string, max int) string {
    if max < 3 {
        max = 3
    }
    lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
    if len(lines) <= max {
        return strings.Join(lines, "\n")
    }
    rest := len(lines) - (max - 1)
    return strings.Join(lines[:max-1], "\n") + fmt.Sprintf("\n… %d more lines", rest)
}
