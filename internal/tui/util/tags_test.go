package util

import (
    "testing"

    "codepad/internal/tui/state"
)

func findKind(tags []state.Tag, k state.TagKind) (idx int, ok bool) {
    for i, t := range tags {
        if t.Kind == k {
            return i, true
        }
    }
    return -1, false
}

func TestOptionalChips(t *testing.T) {
    tags := ComputeTags(Footer{Language: "html", Clients: -1})
    if _, ok := findKind(tags, state.UNSAVED); ok {
        t.Fatalf("did not expect UNSAVED without a pending save")
    }
    if _, ok := findKind(tags, state.PREVIEW); ok {
        t.Fatalf("did not expect PREVIEW when the server is off")
    }

    tags = ComputeTags(Footer{Language: "html", Pending: true, Clients: 2})
    if _, ok := findKind(tags, state.UNSAVED); !ok {
        t.Fatalf("expected UNSAVED tag present")
    }
    if idx, ok := findKind(tags, state.PREVIEW); !ok || tags[idx].Value != 2 {
        t.Fatalf("expected PREVIEW with 2 clients")
    }
}

func TestLabelsAndCounters(t *testing.T) {
    text := "<p>héllo</p>\n<p>x</p>"
    tags := ComputeTags(Footer{Language: "javascript", Dark: true, View: state.PreviewOnly, Text: text})

    if idx, ok := findKind(tags, state.LANGUAGE); !ok || tags[idx].Text != "JAVASCRIPT" {
        t.Fatalf("expected upper-cased language label")
    }
    if idx, ok := findKind(tags, state.THEME); !ok || tags[idx].Text != "Dark" {
        t.Fatalf("expected Dark theme label")
    }
    if idx, ok := findKind(tags, state.VIEW); !ok || tags[idx].Text != "preview" {
        t.Fatalf("expected preview view label")
    }
    if idx, ok := findKind(tags, state.LINES); !ok || tags[idx].Value != 2 {
        t.Fatalf("expected LINES 2")
    }
    if idx, ok := findKind(tags, state.CHARS); !ok || tags[idx].Value != len([]rune(text)) {
        t.Fatalf("expected CHARS counted in runes, got %d", tags[idx].Value)
    }

    tags = ComputeTags(Footer{Language: "css"})
    if idx, _ := findKind(tags, state.LINES); tags[idx].Value != 1 {
        t.Fatalf("empty buffer should count as one line")
    }
}

func TestStableOrder(t *testing.T) {
    tags := ComputeTags(Footer{Language: "css", Pending: true, Clients: 1, Text: "a"})
    // Expected order: LANGUAGE, THEME, VIEW, UNSAVED, PREVIEW, LINES, CHARS
    order := []state.TagKind{state.LANGUAGE, state.THEME, state.VIEW, state.UNSAVED, state.PREVIEW, state.LINES, state.CHARS}
    pos := map[state.TagKind]int{}
    for i, tg := range tags {
        pos[tg.Kind] = i
    }
    prev := -1
    for _, k := range order {
        if idx, ok := pos[k]; ok {
            if idx < prev {
                t.Fatalf("tag %v appears before previous; order unstable", k)
            }
            prev = idx
        }
    }
}
