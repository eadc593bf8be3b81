package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Load  key.Binding
	Error key.Binding
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load users"),
		),
		Error: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "show error"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open user"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "enter"),
			key.WithHelp("esc/enter", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Error, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Load, k.Error},
		{k.Up, k.Down, k.Open},
		{k.Close, k.Help, k.Quit},
	}
}
