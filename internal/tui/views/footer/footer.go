package footer

import (
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
    chips "codepad/internal/tui/widgets/tagchips"
    "codepad/internal/tui/widgets/statusbar"
)

// Render is a thin adapter combining the footer chips with the status bar.
// A compact footer leaves the chips out.
func Render(s state.UIState, f util.Footer, noColor bool) string {
    tags := ""
    if !s.Compact {
        tags = chips.View(util.ComputeTags(f), noColor, util.ThemePalette(s.Dark))
    }
    return statusbar.NewStatusBar(noColor).View(s, tags)
}
