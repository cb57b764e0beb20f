package preview

import (
    "strings"

    "github.com/charmbracelet/bubbles/viewport"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

// Pane shows the rendered preview text in a scrollable viewport.
type Pane struct {
    vp      viewport.Model
    text    string
    version uint64
    wrap    bool
}

func NewPane() *Pane {
    return &Pane{vp: viewport.New(0, 0)}
}

// Sync replaces the content when version moved. The scroll position is
// kept unless the document shrank below it.
func (p *Pane) Sync(text string, version uint64, s state.UIState) {
    if version == p.version && s.Wrap == p.wrap {
        return
    }
    p.text, p.version, p.wrap = text, version, s.Wrap
    p.refresh()
}

func (p *Pane) SetSize(width, height int) {
    p.vp.Width = width
    p.vp.Height = height
    p.refresh()
}

func (p *Pane) refresh() {
    off := p.vp.YOffset
    p.vp.SetContent(layout(p.text, p.vp.Width, p.wrap))
    p.vp.SetYOffset(off)
}

func (p *Pane) Update(msg tea.Msg) tea.Cmd {
    var cmd tea.Cmd
    p.vp, cmd = p.vp.Update(msg)
    return cmd
}

// View renders the pane with a title line.
func (p *Pane) View(s state.UIState) string {
    pal := util.ThemePalette(s.Dark)
    title := lipgloss.NewStyle().Bold(true).Foreground(pal.Primary).Render("Preview")
    if p.text == "" {
        return title + "\n" + lipgloss.NewStyle().Foreground(pal.Muted).Render("Nothing to preview yet.")
    }
    return title + "\n" + p.vp.View()
}

// layout wraps or clips lines to width.
func layout(text string, width int, wrap bool) string {
    if width <= 0 {
        return text
    }
    if wrap {
        return lipgloss.NewStyle().Width(width).Render(text)
    }
    lines := strings.Split(text, "\n")
    for i, l := range lines {
        if r := []rune(l); len(r) > width {
            lines[i] = string(r[:width-1]) + "›"
        }
    }
    return strings.Join(lines, "\n")
}
