package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New      key.Binding
	Open     key.Binding
	SaveFile key.Binding
	Format   key.Binding
	Comment  key.Binding
	Copy     key.Binding
	Paste    key.Binding
	Run      key.Binding
	Theme    key.Binding
	Language key.Binding
	Load     key.Binding
	SaveNow  key.Binding
	Clear    key.Binding
	View     key.Binding
	Wrap     key.Binding
	Footer   key.Binding
	Help     key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		New:      key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new file")),
		Open:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open file")),
		SaveFile: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save as code.<ext>")),
		Format:   key.NewBinding(key.WithKeys("alt+f", "alt+F", "ctrl+f"), key.WithHelp("alt+f", "format code")),
		Comment:  key.NewBinding(key.WithKeys("ctrl+_"), key.WithHelp("ctrl+/", "toggle comment")),
		Copy:     key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy to clipboard")),
		Paste:    key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		Run:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "run preview")),
		Theme:    key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle theme")),
		Language: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "next language")),
		Load:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "load saved state")),
		SaveNow:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "save state now")),
		Clear:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear saved state")),
		View:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "cycle view")),
		Wrap:     key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "wrap preview")),
		Footer:   key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "collapse footer")),
		Help:     key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close overlay")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Format, k.Run, k.View, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.SaveFile, k.Copy, k.Paste},
		{k.Format, k.Comment, k.Run, k.Language},
		{k.Load, k.SaveNow, k.Clear, k.Theme},
		{k.View, k.Wrap, k.Footer, k.Help, k.Close, k.Quit},
	}
}
