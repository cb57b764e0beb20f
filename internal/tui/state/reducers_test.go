package state

import (
    "testing"

    "codepad/internal/feedback"
)

func TestToggleWrap(t *testing.T) {
    s := UIState{Wrap: false}
    s = ToggleWrap(s)
    if !s.Wrap { t.Fatalf("expected Wrap to be true") }
}

func TestToggleFooter(t *testing.T) {
    s := ToggleFooter(UIState{})
    if !s.Compact { t.Fatalf("expected compact footer") }
    if ToggleFooter(s).Compact { t.Fatalf("expected expanded footer") }
}

func TestParseAndSetView(t *testing.T) {
    v, err := ParseView("Preview")
    if err != nil || v != PreviewOnly { t.Fatalf("ParseView: %v %v", v, err) }
    if _, err := ParseView("tabs"); err == nil { t.Fatalf("expected error for unknown view") }
    s := SetView(UIState{}, v)
    if s.View != PreviewOnly { t.Fatalf("SetView did not apply") }
}

func TestCycleView(t *testing.T) {
    s := UIState{View: Split, Width: 120, MinCol: 20}
    s = CycleView(s)
    if s.View != EditorOnly { t.Fatalf("expected EditorOnly, got %v", s.View) }
    s = CycleView(s)
    if s.View != PreviewOnly { t.Fatalf("expected PreviewOnly, got %v", s.View) }
    s = CycleView(s)
    if s.View != Split { t.Fatalf("expected Split, got %v", s.View) }
}

func TestCycleViewSkipsSplitWhenNarrow(t *testing.T) {
    s := UIState{View: PreviewOnly, Width: 30, MinCol: 20}
    s = CycleView(s)
    if s.View != EditorOnly || s.Notice == "" { t.Fatalf("expected EditorOnly with notice, got %v %q", s.View, s.Notice) }
}

func TestResizeFallbackToEditor(t *testing.T) {
    s := UIState{View: Split, MinCol: 20}
    s = Resize(s, 30, 20) // threshold = 2*20+1 = 41; 30 < 41 => editor only
    if s.View != EditorOnly { t.Fatalf("expected EditorOnly after resize fallback") }
    if s.Notice == "" { t.Fatalf("expected fallback notice to be set") }
    if s.Height != 20 { t.Fatalf("height not recorded") }
}

func TestPaneWidths(t *testing.T) {
    e, p := PaneWidths(UIState{View: Split, Width: 81})
    if e+p+1 != 81 || e == 0 || p == 0 { t.Fatalf("split widths %d/%d", e, p) }
    e, p = PaneWidths(UIState{View: PreviewOnly, Width: 81})
    if e != 0 || p != 81 { t.Fatalf("preview-only widths %d/%d", e, p) }
}

func TestDiffScrolls(t *testing.T) {
    s := UIState{}
    s = ScrollRight(s, true)
    if s.ScrollH == 0 { t.Fatalf("expected scroll to increase") }
    s = ScrollLeft(s, true)
    if s.ScrollH != 0 { t.Fatalf("expected scroll to return to 0") }
    s = ScrollLeft(s, false)
    if s.ScrollH != 0 { t.Fatalf("scroll went negative") }
}

func TestToggleDiffResetsScroll(t *testing.T) {
    s := UIState{View: Split, ScrollH: 9}
    s = ToggleDiff(s)
    if s.Diff != SideBySide || s.ScrollH != 0 { t.Fatalf("expected SideBySide with scroll reset") }
}

func TestOverlayAndStatus(t *testing.T) {
    s := UIState{Notice: "old"}
    s = OpenOverlay(s, HelpOverlay)
    if s.Overlay != HelpOverlay || s.Notice != "" { t.Fatalf("overlay not opened") }
    s = CloseOverlay(s)
    if s.Overlay != NoOverlay { t.Fatalf("overlay not closed") }
    s = SetStatus(s, "Saving...", feedback.Busy)
    if s.Status != "Saving..." || s.Level != feedback.Busy { t.Fatalf("status not set") }
    s = ResetStatus(s)
    if s.Status != "Ready" || s.Level != feedback.Ready { t.Fatalf("status not reset") }
}
