package diff

import (
    "strings"
    "testing"

    "codepad/internal/tui/state"
)

func TestUnifiedSnapshot(t *testing.T) {
    v := NewDiffView("editor", "saved")
    s := state.UIState{Diff: state.Unified}
    out := v.View(s, "a\nb", "a\nc")
    if !strings.Contains(out, "- editor") || !strings.Contains(out, "+ saved") {
        t.Fatalf("missing unified header:\n%s", out)
    }
    if !strings.Contains(out, "- b") || !strings.Contains(out, "+ c") || !strings.Contains(out, "  a") {
        t.Fatalf("expected +/- lines in unified output:\n%s", out)
    }
}

func TestUnifiedCollapsesUnchangedRuns(t *testing.T) {
    before := "1\n2\n3\n4\n5\n6\n7\n8\nold"
    after := "1\n2\n3\n4\n5\n6\n7\n8\nnew"
    out := NewDiffView("a", "b").View(state.UIState{}, before, after)
    if !strings.Contains(out, "⋯") { t.Fatalf("expected collapsed context marker:\n%s", out) }
    if strings.Contains(out, "  1\n") { t.Fatalf("line far from the change should be hidden:\n%s", out) }
    if !strings.Contains(out, "  7\n") { t.Fatalf("context line missing:\n%s", out) }
}

func TestUnequalLineCounts(t *testing.T) {
    out := NewDiffView("a", "b").View(state.UIState{}, "x\ny", "x\ny\nz\nw")
    if !strings.Contains(out, "+ z") || !strings.Contains(out, "+ w") {
        t.Fatalf("expected inserted lines:\n%s", out)
    }
}

func TestNoChanges(t *testing.T) {
    if out := NewDiffView("a", "b").View(state.UIState{}, "same", "same"); out != "No changes\n" {
        t.Fatalf("got %q", out)
    }
}

func TestSideBySideSnapshot(t *testing.T) {
    v := NewDiffView("editor", "saved")
    s := state.UIState{Diff: state.SideBySide, Width: 60}
    out := v.View(s, "left", "right")
    if !strings.HasPrefix(out, "editor") {
        t.Fatalf("missing sbs header:\n%s", out)
    }
    if !strings.Contains(out, " │ ") {
        t.Fatalf("missing separator")
    }
}

func TestSideBySideScroll(t *testing.T) {
    s := state.UIState{Diff: state.SideBySide, Width: 60, ScrollH: 3}
    out := NewDiffView("a", "b").View(s, "abcdefg", "abcdXfg")
    if !strings.Contains(out, "defg") || strings.Contains(out, "abcdefg") {
        t.Fatalf("expected columns scrolled by 3:\n%s", out)
    }
}
