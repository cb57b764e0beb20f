package editor

import (
    "fmt"

    "github.com/charmbracelet/bubbles/textarea"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "codepad/internal/files"
    "codepad/internal/lang"
    "codepad/internal/tui/state"
    "codepad/internal/tui/util"
)

// Editor is the code buffer: a textarea plus the language and theme the
// session drives through it.
type Editor struct {
    ta   textarea.Model
    lang lang.Language
    dark bool
}

func NewEditor() *Editor {
    ta := textarea.New()
    ta.ShowLineNumbers = true
    ta.CharLimit = 0
    ta.MaxHeight = 0
    ta.Prompt = " "
    e := &Editor{ta: ta, lang: lang.HTML}
    e.SetTheme(false)
    e.SetLanguage(lang.HTML)
    e.ta.Focus()
    return e
}

func (e *Editor) Value() string { return e.ta.Value() }

// SetValue replaces the buffer, keeping the cursor on its row when the row
// still exists.
func (e *Editor) SetValue(text string) {
    row := e.ta.Line()
    e.ta.SetValue(text)
    for up := e.ta.LineCount() - 1 - row; up > 0; up-- {
        e.ta.CursorUp()
    }
    e.ta.CursorStart()
}

func (e *Editor) SetLanguage(l lang.Language) {
    e.lang = l
    e.ta.Placeholder = fmt.Sprintf("Write your %s code here...", l.Upper())
}

func (e *Editor) Language() lang.Language { return e.lang }

func (e *Editor) SetTheme(dark bool) {
    e.dark = dark
    p := util.ThemePalette(dark)
    focused := textarea.Style{
        Base:             lipgloss.NewStyle().Foreground(p.Text),
        CursorLine:       lipgloss.NewStyle().Background(p.MutedDark).Foreground(p.Text),
        CursorLineNumber: lipgloss.NewStyle().Foreground(p.Accent),
        EndOfBuffer:      lipgloss.NewStyle().Foreground(p.Border),
        LineNumber:       lipgloss.NewStyle().Foreground(p.Muted),
        Placeholder:      lipgloss.NewStyle().Foreground(p.Muted),
        Prompt:           lipgloss.NewStyle().Foreground(p.Border),
        Text:             lipgloss.NewStyle().Foreground(p.Text),
    }
    if !dark {
        focused.CursorLine = lipgloss.NewStyle().Background(p.Surface).Foreground(p.Text)
    }
    blurred := focused
    blurred.CursorLine = focused.Text
    e.ta.FocusedStyle = focused
    e.ta.BlurredStyle = blurred
}

// Row is the zero-based cursor row.
func (e *Editor) Row() int { return e.ta.Line() }

func (e *Editor) Focus() tea.Cmd { return e.ta.Focus() }

func (e *Editor) Blur() { e.ta.Blur() }

// SetSize sizes the editor pane including its header line.
func (e *Editor) SetSize(width, height int) {
    if height < 2 {
        height = 2
    }
    e.ta.SetWidth(width)
    e.ta.SetHeight(height - 1)
}

// Update forwards msg to the textarea and reports whether the text changed.
func (e *Editor) Update(msg tea.Msg) (bool, tea.Cmd) {
    before := e.ta.Value()
    var cmd tea.Cmd
    e.ta, cmd = e.ta.Update(msg)
    return e.ta.Value() != before, cmd
}

// InsertString inserts text at the cursor and reports whether the text
// changed.
func (e *Editor) InsertString(text string) bool {
    before := e.ta.Value()
    e.ta.InsertString(text)
    return e.ta.Value() != before
}

// View renders a header with the file name and cursor position above the
// buffer.
func (e *Editor) View(s state.UIState) string {
    p := util.ThemePalette(s.Dark)
    info := e.ta.LineInfo()
    header := fmt.Sprintf("%s  Ln %d, Col %d", files.FileName(e.lang), e.ta.Line()+1, info.CharOffset+1)
    header = lipgloss.NewStyle().Foreground(p.Muted).Render(header)
    return header + "\n" + e.ta.View()
}
