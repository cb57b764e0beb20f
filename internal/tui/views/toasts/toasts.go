package toasts

import (
    "strings"

    "github.com/charmbracelet/lipgloss"

    "codepad/internal/feedback"
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

// Toast is one visible notification.
type Toast struct {
    ID    int
    Kind  feedback.Kind
    Title string
    Body  string
}

var icons = map[feedback.Kind]string{
    feedback.Info:    "i",
    feedback.Success: "✓",
    feedback.Warning: "!",
    feedback.Error:   "✗",
}

// Render stacks toasts newest last, each in a box colored by its kind.
func Render(list []Toast, s state.UIState) string {
    if len(list) == 0 {
        return ""
    }
    p := util.ThemePalette(s.Dark)
    width := 40
    if s.Width > 0 && s.Width/2 < width {
        width = s.Width / 2
    }
    boxes := make([]string, 0, len(list))
    for _, t := range list {
        c := kindColor(t.Kind, p)
        title := lipgloss.NewStyle().Bold(true).Foreground(c).Render(icons[t.Kind] + " " + t.Title)
        body := title
        if t.Body != "" {
            body += "\n" + lipgloss.NewStyle().Width(width).Render(t.Body)
        }
        boxes = append(boxes, lipgloss.NewStyle().
            Border(lipgloss.RoundedBorder()).
            BorderForeground(c).
            Padding(0, 1).
            Render(body))
    }
    return strings.Join(boxes, "\n")
}

func kindColor(k feedback.Kind, p util.Palette) lipgloss.Color {
    switch k {
    case feedback.Success:
        return p.Success
    case feedback.Warning:
        return p.Warning
    case feedback.Error:
        return p.Danger
    default:
        return p.Primary
    }
}
