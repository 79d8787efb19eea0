package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Begin      key.Binding
	Add        key.Binding
	Release    key.Binding
	StartEarly key.Binding
	StartLate  key.Binding
	EndEarly   key.Binding
	EndLate    key.Binding
	Remove     key.Binding
	Clear      key.Binding
	NextWeek   key.Binding
	PrevWeek   key.Binding
	Today      key.Binding
	Agenda     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "earlier")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "later")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Begin:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		Add:        key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "add selection")),
		Release:    key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "release")),
		StartEarly: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "start earlier")),
		StartLate:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "start later")),
		EndEarly:   key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "end earlier")),
		EndLate:    key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "end later")),
		Remove:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove")),
		Clear:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		NextWeek:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next week")),
		PrevWeek:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous week")),
		Today:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Agenda:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "agenda")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Begin, k.Add, k.Release, k.Remove, k.Agenda, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextWeek, k.PrevWeek, k.Today},
		{k.Begin, k.Add, k.Release, k.Remove, k.Clear},
		{k.StartEarly, k.StartLate, k.EndEarly, k.EndLate},
		{k.Agenda, k.Help, k.Quit},
	}
}
