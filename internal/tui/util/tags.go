package util

import (
    "strings"

    "codepad/internal/tui/state"
)

// Footer is what the footer chips are computed from.
type Footer struct {
    Language string
    Dark     bool
    View     state.ViewMode
    Pending  bool // autosave scheduled but not yet written
    Clients  int  // connected browser previews; negative when the preview server is off
    Text     string
}

// ComputeTags calculates the footer chips for the editor page.
//
// The returned slice preserves a stable order:
//   Language, Theme, View, Unsaved, Preview, Lines, Chars
//
// Unsaved only appears while an autosave is pending and Preview only when
// the browser preview is being served. Lines and Chars are always included.
func ComputeTags(f Footer) []state.Tag {
    tags := make([]state.Tag, 0, 7)

    tags = append(tags, state.Tag{Kind: state.LANGUAGE, Text: strings.ToUpper(f.Language)})

    theme := "Light"
    if f.Dark {
        theme = "Dark"
    }
    tags = append(tags, state.Tag{Kind: state.THEME, Text: theme})

    tags = append(tags, state.Tag{Kind: state.VIEW, Text: f.View.String()})

    if f.Pending {
        tags = append(tags, state.Tag{Kind: state.UNSAVED})
    }

    if f.Clients >= 0 {
        tags = append(tags, state.Tag{Kind: state.PREVIEW, Value: f.Clients})
    }

    tags = append(tags, state.Tag{Kind: state.LINES, Value: lineCount(f.Text)})
    tags = append(tags, state.Tag{Kind: state.CHARS, Value: runeLen(f.Text)})

    return tags
}

// lineCount counts newline-separated lines; an empty buffer is one line,
// matching what the editor shows.
func lineCount(s string) int {
    return strings.Count(s, "\n") + 1
}

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int {
    return len([]rune(s))
}
