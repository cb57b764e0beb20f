package diff

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"
    dmp "github.com/sergi/go-diff/diffmatchpatch"

    "codepad/internal/tui/state"
)

// contextLines is how many unchanged lines are kept around a change in the
// unified view.
const contextLines = 2

var (
    delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
    addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
    delChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
    addChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
    faint   = lipgloss.NewStyle().Faint(true)
    label   = lipgloss.NewStyle().Bold(true)
)

// DiffView renders what replacing one text with another would change.
type DiffView struct {
    BeforeLabel string
    AfterLabel  string
}

func NewDiffView(before, after string) DiffView {
    return DiffView{BeforeLabel: before, AfterLabel: after}
}

// View renders before against after in the mode selected by s.Diff.
func (v DiffView) View(s state.UIState, before, after string) string {
    if before == after {
        return "No changes\n"
    }
    rows := lineRows(before, after)
    if s.Diff == state.SideBySide {
        return v.sideBySide(rows, s)
    }
    return v.unified(rows)
}

// row is one aligned line pair. A missing side is marked by the has flags.
type row struct {
    left, right       string
    hasLeft, hasRight bool
}

func (r row) equal() bool { return r.hasLeft && r.hasRight && r.left == r.right }

// lineRows runs a line-mode diff and pairs each deleted block with the
// inserted block that follows it.
func lineRows(before, after string) []row {
    d := dmp.New()
    a, b, lines := d.DiffLinesToChars(before, after)
    diffs := d.DiffCharsToLines(d.DiffMain(a, b, false), lines)

    var rows []row
    for i := 0; i < len(diffs); i++ {
        df := diffs[i]
        ls := splitLines(df.Text)
        switch df.Type {
        case dmp.DiffEqual:
            for _, l := range ls {
                rows = append(rows, row{left: l, right: l, hasLeft: true, hasRight: true})
            }
        case dmp.DiffDelete:
            var ins []string
            if i+1 < len(diffs) && diffs[i+1].Type == dmp.DiffInsert {
                ins = splitLines(diffs[i+1].Text)
                i++
            }
            n := len(ls)
            if len(ins) > n {
                n = len(ins)
            }
            for j := 0; j < n; j++ {
                var r row
                if j < len(ls) {
                    r.left, r.hasLeft = ls[j], true
                }
                if j < len(ins) {
                    r.right, r.hasRight = ins[j], true
                }
                rows = append(rows, r)
            }
        case dmp.DiffInsert:
            for _, l := range ls {
                rows = append(rows, row{right: l, hasRight: true})
            }
        }
    }
    return rows
}

func splitLines(text string) []string {
    if text == "" {
        return nil
    }
    return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func (v DiffView) unified(rows []row) string {
    visible := make([]bool, len(rows))
    for i, r := range rows {
        if r.equal() {
            continue
        }
        for j := i - contextLines; j <= i+contextLines; j++ {
            if j >= 0 && j < len(rows) {
                visible[j] = true
            }
        }
    }

    var sb strings.Builder
    fmt.Fprintf(&sb, "%s  %s\n", delLine.Render("- "+v.BeforeLabel), addLine.Render("+ "+v.AfterLabel))
    skipped := false
    for i, r := range rows {
        if !visible[i] {
            if !skipped {
                sb.WriteString(faint.Render("  ⋯") + "\n")
                skipped = true
            }
            continue
        }
        skipped = false
        switch {
        case r.equal():
            sb.WriteString("  " + faint.Render(r.left) + "\n")
        case r.hasLeft && r.hasRight:
            d := dmp.New()
            diffs := d.DiffCleanupSemantic(d.DiffMain(r.left, r.right, false))
            sb.WriteString(delLine.Render("- "))
            for _, df := range diffs {
                switch df.Type {
                case dmp.DiffDelete:
                    sb.WriteString(delChar.Render(df.Text))
                case dmp.DiffEqual:
                    sb.WriteString(delLine.Render(df.Text))
                }
            }
            sb.WriteString("\n")
            sb.WriteString(addLine.Render("+ "))
            for _, df := range diffs {
                switch df.Type {
                case dmp.DiffInsert:
                    sb.WriteString(addChar.Render(df.Text))
                case dmp.DiffEqual:
                    sb.WriteString(addLine.Render(df.Text))
                }
            }
            sb.WriteString("\n")
        case r.hasLeft:
            sb.WriteString(delLine.Render("- "+r.left) + "\n")
        default:
            sb.WriteString(addLine.Render("+ "+r.right) + "\n")
        }
    }
    return sb.String()
}

func (v DiffView) sideBySide(rows []row, s state.UIState) string {
    const sep = " │ "
    colWidth := 40
    if s.Width > 0 {
        colWidth = (s.Width - len([]rune(sep))) / 2
        if colWidth < 10 {
            colWidth = 10
        }
    }
    var sb strings.Builder
    sb.WriteString(label.Render(pad(clip(v.BeforeLabel, colWidth, 0), colWidth)) + sep + label.Render(v.AfterLabel) + "\n")
    for _, r := range rows {
        l := pad(clip(r.left, colWidth, s.ScrollH), colWidth)
        rt := clip(r.right, colWidth, s.ScrollH)
        switch {
        case r.equal():
            l, rt = faint.Render(l), faint.Render(rt)
        default:
            if r.hasLeft {
                l = delLine.Render(l)
            }
            if r.hasRight {
                rt = addLine.Render(rt)
            }
        }
        sb.WriteString(l + sep + rt + "\n")
    }
    return sb.String()
}

func clip(s string, width int, start int) string {
    runes := []rune(s)
    if start < 0 {
        start = 0
    }
    if start >= len(runes) {
        return ""
    }
    end := start + width
    if end > len(runes) {
        end = len(runes)
    }
    return string(runes[start:end])
}

func pad(s string, width int) string {
    if w := len([]rune(s)); w < width {
        return s + strings.Repeat(" ", width-w)
    }
    return s
}
