package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
//
// Letters are reserved for the query input, so list navigation uses arrows only.
type keyMap struct {
	up   key.Binding
	down key.Binding
	open key.Binding
	back key.Binding
	quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		down: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		back: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		quit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.open, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.open},
		{k.back, k.quit},
	}
}
