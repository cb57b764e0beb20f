package state

import "codepad/internal/feedback"

// CycleView moves split -> editor -> preview -> split. Split is skipped
// when the terminal is too narrow for two panes.
func CycleView(s UIState) UIState {
    next := (s.View + 1) % 3
    if next == Split && !fitsSplit(s) {
        next = EditorOnly
        s.Notice = "Narrow terminal: split view unavailable"
    }
    s.View = next
    return s
}

// SetView selects a layout directly.
func SetView(s UIState, v ViewMode) UIState {
    s.View = v
    return s
}

// Resize records the terminal size and falls back from split to the editor
// alone when the panes would become unusable.
func Resize(s UIState, width, height int) UIState {
    s.Width = width
    s.Height = height
    if s.View == Split && !fitsSplit(s) {
        s.View = EditorOnly
        s.Notice = "Narrow terminal: editor only"
    }
    return s
}

func fitsSplit(s UIState) bool {
    return s.Width == 0 || s.Width >= 2*s.MinCol+1
}

// PaneWidths splits the width between editor and preview for the current
// view. A hidden pane gets 0.
func PaneWidths(s UIState) (editor, preview int) {
    switch s.View {
    case EditorOnly:
        return s.Width, 0
    case PreviewOnly:
        return 0, s.Width
    default:
        editor = s.Width / 2
        return editor, s.Width - editor - 1
    }
}

// ToggleWrap flips soft wrapping of the preview pane.
func ToggleWrap(s UIState) UIState {
    s.Wrap = !s.Wrap
    return s
}

// ToggleFooter collapses the footer to the status line or expands it again.
func ToggleFooter(s UIState) UIState {
    s.Compact = !s.Compact
    return s
}

// ToggleDiff switches confirmation diffs between unified and side-by-side.
func ToggleDiff(s UIState) UIState {
    if s.Diff == Unified {
        s.Diff = SideBySide
    } else {
        s.Diff = Unified
    }
    s.ScrollH = 0
    return s
}

// ScrollLeft moves the side-by-side diff columns left.
func ScrollLeft(s UIState, fast bool) UIState {
    delta := 1
    if fast {
        delta = 8
    }
    if s.ScrollH >= delta {
        s.ScrollH -= delta
    } else {
        s.ScrollH = 0
    }
    return s
}

// ScrollRight moves the side-by-side diff columns right.
func ScrollRight(s UIState, fast bool) UIState {
    delta := 1
    if fast {
        delta = 8
    }
    s.ScrollH += delta
    return s
}

// OpenOverlay puts o on top and clears any pending notice.
func OpenOverlay(s UIState, o Overlay) UIState {
    s.Overlay = o
    s.Notice = ""
    if o == ConfirmOverlay {
        s.ScrollH = 0
    }
    return s
}

func CloseOverlay(s UIState) UIState {
    s.Overlay = NoOverlay
    return s
}

// SetStatus replaces the footer status.
func SetStatus(s UIState, text string, level feedback.Level) UIState {
    s.Status = text
    s.Level = level
    return s
}

// ResetStatus returns the footer to Ready.
func ResetStatus(s UIState) UIState {
    return SetStatus(s, "Ready", feedback.Ready)
}
