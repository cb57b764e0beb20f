package state

import (
    "fmt"
    "strings"

    "codepad/internal/feedback"
)

// ViewMode is the pane layout of the editor page.
type ViewMode int

const (
    Split ViewMode = iota
    EditorOnly
    PreviewOnly
)

func (v ViewMode) String() string {
    switch v {
    case EditorOnly:
        return "editor"
    case PreviewOnly:
        return "preview"
    default:
        return "split"
    }
}

// ParseView accepts the names String returns.
func ParseView(s string) (ViewMode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "split":
        return Split, nil
    case "editor":
        return EditorOnly, nil
    case "preview":
        return PreviewOnly, nil
    }
    return Split, fmt.Errorf("unknown view %q (want split, editor or preview)", s)
}

// Overlay is what sits on top of the panes and receives keys first.
type Overlay int

const (
    NoOverlay Overlay = iota
    HelpOverlay
    ConfirmOverlay
    PickerOverlay
)

// DiffMode controls how the diff in a confirmation is rendered.
type DiffMode int

const (
    Unified DiffMode = iota
    SideBySide
)

// UIState holds cross-widget UI state used by the footer, panes and overlays.
type UIState struct {
    // Layout
    View    ViewMode
    Overlay Overlay
    Width   int
    Height  int
    MinCol  int // narrowest usable pane; split needs 2*MinCol+1 columns
    Dark    bool
    Wrap    bool // soft-wrap the preview pane

    // Confirmation diff
    Diff    DiffMode
    ScrollH int

    // Footer
    Compact bool // footer shows the status line only
    Status  string
    Level   feedback.Level
    Notice  string
}
