package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codepad/internal/preview"
)

// ServeInfo describes a running preview server.
type ServeInfo struct {
	File   string
	URL    string
	LogDir string // where S writes the log buffer
}

// ServeActions are the operations the dashboard can trigger.
type ServeActions struct {
	Open   func() error // open the preview in a browser
	Reload func()       // re-read the file and publish it
}

type serveModel struct {
	info   ServeInfo
	act    ServeActions
	st     preview.Status
	ch     <-chan string
	upch   <-chan preview.Status
	status string

	logs   []string
	held   []string // lines received while frozen
	frozen bool
	wrap   bool
	vp     viewport.Model
	rowOf  []int // first viewport row of each log line

	searching bool
	search    textinput.Model
	query     string
	matches   []int
	cur       int
}

type logMsg string

type statusMsg preview.Status

func waitLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(s)
	}
}

func waitStatus(ch <-chan preview.Status) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return statusMsg(s)
	}
}

// ShowServe runs the preview server dashboard until the user quits. Logs
// and hub status stream in over logCh and updates.
func ShowServe(info ServeInfo, act ServeActions, logCh <-chan string, updates <-chan preview.Status) error {
	p := tea.NewProgram(newServeModel(info, act, logCh, updates), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

const logRows = 12

func newServeModel(info ServeInfo, act ServeActions, logCh <-chan string, updates <-chan preview.Status) *serveModel {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search logs"
	in.CharLimit = 128
	return &serveModel{
		info:   info,
		act:    act,
		ch:     logCh,
		upch:   updates,
		vp:     viewport.New(96, logRows),
		search: in,
	}
}

func (m *serveModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.ch != nil {
		cmds = append(cmds, waitLog(m.ch))
	}
	if m.upch != nil {
		cmds = append(cmds, waitStatus(m.upch))
	}
	return tea.Batch(cmds...)
}

func (m *serveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m, m.searchKey(v)
		}
		return m, m.key(v)
	case logMsg:
		if m.frozen {
			m.held = append(m.held, string(v))
		} else {
			m.appendLogs(string(v))
		}
		return m, waitLog(m.ch)
	case statusMsg:
		m.st = preview.Status(v)
		return m, waitStatus(m.upch)
	case tea.WindowSizeMsg:
		if v.Width > 0 {
			m.vp.Width = max(v.Width-4, 20)
			m.refresh()
		}
	}
	return m, nil
}

func (m *serveModel) searchKey(k tea.KeyMsg) tea.Cmd {
	switch k.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.query = strings.TrimSpace(m.search.Value())
		m.findMatches()
		m.jump(0)
		return nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.query, m.matches, m.cur = "", nil, 0
		m.refresh()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(k)
	return cmd
}

func (m *serveModel) key(k tea.KeyMsg) tea.Cmd {
	switch k.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "o":
		if m.act.Open == nil {
			return nil
		}
		if err := m.act.Open(); err != nil {
			m.status = "Open failed: " + err.Error()
		} else {
			m.status = "Opened " + m.info.URL
		}
	case "r":
		if m.act.Reload != nil {
			m.act.Reload()
			m.status = "Reloaded " + filepath.Base(m.info.File)
		}
	case "G", "end":
		m.vp.GotoBottom()
	case "g", "home":
		m.vp.GotoTop()
	case "up", "down", "j", "k", "pgup", "pgdown", "u", "d", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(k)
		return cmd
	case "w":
		m.wrap = !m.wrap
		m.refresh()
	case "/":
		m.searching = true
		m.search.SetValue("")
		return m.search.Focus()
	case "n":
		m.jump(m.cur + 1)
	case "N":
		m.jump(m.cur - 1)
	case "s", "S":
		if path, err := m.saveLogs(); err == nil {
			m.status = "Saved logs to " + path
		} else {
			m.status = "Save failed: " + err.Error()
		}
	case "f":
		m.frozen = !m.frozen
		if m.frozen {
			m.status = "Logs frozen"
			return nil
		}
		m.status = "Logs resumed"
		held := m.held
		m.held = nil
		m.appendLogs(held...)
	}
	return nil
}

// appendLogs adds lines and keeps following the tail unless the user
// scrolled up.
func (m *serveModel) appendLogs(lines ...string) {
	if len(lines) == 0 {
		return
	}
	follow := m.vp.AtBottom()
	m.logs = append(m.logs, lines...)
	if m.query != "" {
		m.findMatches()
	}
	m.refresh()
	if follow {
		m.vp.GotoBottom()
	}
}

// refresh lays the log lines out for the viewport width.
func (m *serveModel) refresh() {
	width := m.vp.Width
	m.rowOf = m.rowOf[:0]
	rows := make([]string, 0, len(m.logs))
	for i, ln := range m.logs {
		m.rowOf = append(m.rowOf, len(rows))
		if !m.wrap {
			if r := []rune(ln); width > 1 && len(r) > width {
				ln = string(r[:width-1]) + "…"
			}
			rows = append(rows, m.highlight(ln, i))
			continue
		}
		wrapped := lipgloss.NewStyle().Width(width).Render(ln)
		for _, w := range strings.Split(wrapped, "\n") {
			rows = append(rows, m.highlight(w, i))
		}
	}
	off := m.vp.YOffset
	m.vp.SetContent(strings.Join(rows, "\n"))
	m.vp.SetYOffset(off)
}

func (m *serveModel) findMatches() {
	m.matches, m.cur = nil, 0
	q := strings.ToLower(m.query)
	if q == "" {
		return
	}
	for i, ln := range m.logs {
		if strings.Contains(strings.ToLower(ln), q) {
			m.matches = append(m.matches, i)
		}
	}
}

// jump scrolls the match at pos (wrapping around) into the middle of the
// log window.
func (m *serveModel) jump(pos int) {
	m.refresh()
	if len(m.matches) == 0 {
		return
	}
	n := len(m.matches)
	m.cur = (pos%n + n) % n
	row := m.rowOf[m.matches[m.cur]]
	m.vp.SetYOffset(row - m.vp.Height/2)
}

func (m *serveModel) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("codepad live preview") + "\n")
	b.WriteString(fmt.Sprintf("    %-12s %s\n", "File:", m.info.File))
	b.WriteString(fmt.Sprintf("    %-12s %s\n", "URL:", selStyle.Render(m.info.URL)))
	b.WriteString(fmt.Sprintf("    %-12s %d\n", "Browsers:", m.st.Clients))
	rendered := "never"
	if !m.st.RenderedAt.IsZero() {
		rendered = m.st.RenderedAt.Format("15:04:05")
	}
	b.WriteString(fmt.Sprintf("    %-12s %d (%d bytes, last at %s)\n\n", "Updates:", m.st.Generation, m.st.Bytes, rendered))

	hint := "(o) open (r) reload (/) search (n/N) next (s) save logs (f) freeze (w) wrap (q) quit"
	if len(m.matches) > 0 {
		hint += fmt.Sprintf("  [%d/%d]", m.cur+1, len(m.matches))
	} else if m.query != "" {
		hint += "  [no match]"
	}
	b.WriteString(hint + "\n")
	if strings.TrimSpace(m.status) != "" {
		b.WriteString(faintStyle.Render(m.status) + "\n")
	}
	if m.searching {
		b.WriteString(m.search.View() + "\n")
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginTop(1)
	if len(m.logs) == 0 {
		b.WriteString(box.Render(faintStyle.Render("waiting for changes...")))
		return b.String()
	}
	b.WriteString(box.Render(m.vp.View()))
	return b.String()
}

var highlightStyle = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "228", Dark: "94"}).Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "0"})

// highlight marks every occurrence of the query in a matching line.
func (m *serveModel) highlight(s string, idx int) string {
	q := strings.ToLower(m.query)
	if q == "" || !slices.Contains(m.matches, idx) {
		return s
	}
	lower := strings.ToLower(s)
	if len(lower) != len(s) {
		return highlightStyle.Render(s)
	}
	var b strings.Builder
	off := 0
	for {
		p := strings.Index(lower[off:], q)
		if p < 0 {
			break
		}
		p += off
		b.WriteString(s[off:p])
		b.WriteString(highlightStyle.Render(s[p : p+len(q)]))
		off = p + len(q)
	}
	b.WriteString(s[off:])
	return b.String()
}

func (m *serveModel) saveLogs() (string, error) {
	dir := m.info.LogDir
	if dir == "" {
		dir = filepath.Join(".codepad", "logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, time.Now().Format("20060102_150405")+".log")
	lines := append(append([]string{}, m.logs...), m.held...)
	return path, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}
