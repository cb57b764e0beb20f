package tui

import (
    "fmt"
    "os"
    "path/filepath"
    "strconv"
    "strings"

    "github.com/charmbracelet/bubbles/textinput"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "codepad/internal/config"
    "codepad/internal/lang"
)

type fieldKind int

const (
    textField fieldKind = iota
    pathField
    intField
    enumField
)

type field struct {
    label   string
    kind    fieldKind
    choices []string
    get     func(c *config.Config) string
    set     func(c *config.Config, v string) error
}

type collectModel struct {
    cfg       *config.Config
    fields    []field
    cursor    int
    editing   bool
    input     textinput.Model
    suggest   []string
    done      bool
    cancelled bool
    msg       string
}

// CollectSettings opens a settings form prefilled from c. It edits c in
// place and reports whether the user chose to save.
func CollectSettings(c *config.Config) (bool, error) {
    m := newCollectModel(c)
    p := tea.NewProgram(m, tea.WithAltScreen())
    if _, err := p.Run(); err != nil { return false, err }
    if m.cancelled { return false, nil }
    return m.done, nil
}

func newCollectModel(c *config.Config) *collectModel {
    in := textinput.New()
    in.Prompt = "> "
    in.CharLimit = 512
    return &collectModel{cfg: c, fields: settingsFields(), input: in}
}

func settingsFields() []field {
    langs := make([]string, 0, len(lang.All))
    for _, l := range lang.All { langs = append(langs, string(l)) }
    setInt := func(dst *int) func(string) error {
        return func(v string) error {
            n, err := strconv.Atoi(strings.TrimSpace(v))
            if err != nil || n < 0 { return fmt.Errorf("not a non-negative number: %q", v) }
            *dst = n
            return nil
        }
    }
    return []field{
        {label: "Storage file", kind: pathField,
            get: func(c *config.Config) string { return c.StorageFile },
            set: func(c *config.Config, v string) error { c.StorageFile = expandPath(v); return nil }},
        {label: "Storage key", kind: textField,
            get: func(c *config.Config) string { return c.StorageKey },
            set: func(c *config.Config, v string) error {
                if strings.TrimSpace(v) == "" { return fmt.Errorf("storage key must not be empty") }
                c.StorageKey = strings.TrimSpace(v)
                return nil
            }},
        {label: "Autosave delay (ms)", kind: intField,
            get: func(c *config.Config) string { return strconv.Itoa(c.AutosaveDelayMs) },
            set: func(c *config.Config, v string) error { return setInt(&c.AutosaveDelayMs)(v) }},
        {label: "Storage quota (bytes)", kind: intField,
            get: func(c *config.Config) string { return strconv.Itoa(c.StorageQuotaBytes) },
            set: func(c *config.Config, v string) error { return setInt(&c.StorageQuotaBytes)(v) }},
        {label: "Preview address", kind: textField,
            get: func(c *config.Config) string { return c.PreviewAddr },
            set: func(c *config.Config, v string) error { c.PreviewAddr = strings.TrimSpace(v); return nil }},
        {label: "Language", kind: enumField, choices: langs,
            get: func(c *config.Config) string { return c.Language },
            set: func(c *config.Config, v string) error { c.Language = v; return nil }},
        {label: "Theme", kind: enumField, choices: []string{"light", "dark"},
            get: func(c *config.Config) string { return c.Theme },
            set: func(c *config.Config, v string) error { c.Theme = v; return nil }},
        {label: "Prettier command", kind: textField,
            get: func(c *config.Config) string { return c.Prettier },
            set: func(c *config.Config, v string) error { c.Prettier = strings.TrimSpace(v); return nil }},
        {label: "Save directory", kind: pathField,
            get: func(c *config.Config) string { return c.SaveDir },
            set: func(c *config.Config, v string) error { c.SaveDir = expandPath(v); return nil }},
        {label: "Log file", kind: pathField,
            get: func(c *config.Config) string { return c.LogFile },
            set: func(c *config.Config, v string) error { c.LogFile = expandPath(v); return nil }},
    }
}

func (m *collectModel) Init() tea.Cmd { return nil }

// cycle moves an enum field by delta through its choices.
func (m *collectModel) cycle(delta int) {
    f := m.fields[m.cursor]
    if f.kind != enumField { return }
    cur := f.get(m.cfg)
    idx := 0
    for i, c := range f.choices {
        if c == cur { idx = i; break }
    }
    idx = (idx + delta + len(f.choices)) % len(f.choices)
    _ = f.set(m.cfg, f.choices[idx])
}

func (m *collectModel) startEdit() tea.Cmd {
    f := m.fields[m.cursor]
    if f.kind == enumField {
        m.cycle(1)
        return nil
    }
    m.editing = true
    m.msg = ""
    m.input.SetValue(f.get(m.cfg))
    m.input.CursorEnd()
    m.computeSuggestions()
    return m.input.Focus()
}

func (m *collectModel) commit() {
    f := m.fields[m.cursor]
    if err := f.set(m.cfg, m.input.Value()); err != nil {
        m.msg = "! " + err.Error()
        return
    }
    m.editing = false
    m.input.Blur()
    m.suggest = nil
}

func (m *collectModel) computeSuggestions() {
    // Provide simple directory-based suggestions for path fields
    m.suggest = nil
    if m.fields[m.cursor].kind != pathField { return }
    in := m.input.Value()
    if strings.TrimSpace(in) == "" { return }
    expanded := in
    if strings.HasPrefix(in, "~") { expanded = expandPath(in) }
    dir := expanded
    base := ""
    if fi, err := os.Stat(expanded); err == nil && fi.IsDir() {
        // ok
    } else {
        dir = filepath.Dir(expanded)
        base = filepath.Base(expanded)
    }
    entries, err := os.ReadDir(dir)
    if err != nil { return }
    var out []string
    for _, e := range entries {
        name := e.Name()
        if base == "" || strings.Contains(strings.ToLower(name), strings.ToLower(base)) {
            cand := filepath.Join(dir, name)
            // Present with ~/ when within home
            if h, _ := os.UserHomeDir(); h != "" && strings.HasPrefix(cand, h) {
                cand = "~" + strings.TrimPrefix(cand, h)
            }
            out = append(out, cand)
        }
        if len(out) >= 8 { break }
    }
    m.suggest = out
}

func expandPath(p string) string {
    p = strings.TrimSpace(p)
    if strings.HasPrefix(p, "~/") {
        if h, err := os.UserHomeDir(); err == nil {
            p = filepath.Join(h, p[2:])
        }
    }
    return os.ExpandEnv(p)
}

func (m *collectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    k, ok := msg.(tea.KeyMsg)
    if !ok {
        if m.editing {
            var cmd tea.Cmd
            m.input, cmd = m.input.Update(msg)
            return m, cmd
        }
        return m, nil
    }
    if m.editing {
        switch k.String() {
        case "enter":
            m.commit()
            return m, nil
        case "tab":
            if len(m.suggest) > 0 {
                m.input.SetValue(m.suggest[0])
                m.input.CursorEnd()
                m.computeSuggestions()
            }
            return m, nil
        case "esc":
            m.editing = false
            m.input.Blur()
            m.suggest = nil
            m.msg = ""
            return m, nil
        }
        var cmd tea.Cmd
        m.input, cmd = m.input.Update(msg)
        m.computeSuggestions()
        return m, cmd
    }
    switch strings.ToLower(k.String()) {
    case "q", "esc", "ctrl+c":
        m.cancelled = true
        return m, tea.Quit
    case "up", "k":
        if m.cursor > 0 { m.cursor-- }
    case "down", "j":
        if m.cursor < len(m.fields)-1 { m.cursor++ }
    case "left", "h":
        m.cycle(-1)
    case "right", "l", " ":
        m.cycle(1)
    case "enter":
        return m, m.startEdit()
    case "s":
        if err := m.cfg.Validate(); err != nil {
            m.msg = "! " + err.Error()
            return m, nil
        }
        m.done = true
        return m, tea.Quit
    }
    return m, nil
}

var (
    selStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
    faintStyle = lipgloss.NewStyle().Faint(true)
    errStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
)

func (m *collectModel) View() string {
    var b strings.Builder
    b.WriteString(lipgloss.NewStyle().Bold(true).Render("codepad settings") + "\n\n")
    if m.msg != "" { b.WriteString(errStyle.Render(m.msg) + "\n\n") }
    for i, f := range m.fields {
        val := f.get(m.cfg)
        if f.kind == enumField { val = "‹ " + val + " ›" }
        line := fmt.Sprintf("  %-22s %s", f.label, val)
        if i == m.cursor { line = selStyle.Render(fmt.Sprintf("> %-22s %s", f.label, val)) }
        b.WriteString(line + "\n")
    }
    if m.editing {
        b.WriteString("\n" + m.fields[m.cursor].label + ":\n" + m.input.View() + "\n")
        for _, s := range m.suggest { b.WriteString(faintStyle.Render("  • ")+s+"\n") }
        b.WriteString("enter: set   tab: autocomplete   esc: cancel\n")
    } else {
        b.WriteString("\nKeys: ↑/↓ select  enter edit  ←/→ cycle  s save  q quit\n")
    }
    return b.String()
}
