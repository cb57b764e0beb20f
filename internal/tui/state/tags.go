package state

// TagKind enumerates the footer chips.
type TagKind int

const (
    // Stable ordering for display: Language, Theme, View, Unsaved, Preview, Lines, Chars
    LANGUAGE TagKind = iota
    THEME
    VIEW
    UNSAVED
    PREVIEW
    LINES
    CHARS
)

// Tag is a single footer chip. Value carries counters (lines, characters,
// connected preview pages); Text carries labels.
type Tag struct {
    Kind  TagKind
    Value int
    Text  string
}
