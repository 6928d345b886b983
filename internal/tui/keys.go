// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Up      key.Binding
	Down    key.Binding
	Choose  key.Binding
	Clear   key.Binding
	UseText key.Binding
	Toggle  key.Binding
	Submit  key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous result")),
		Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next result")),
		Choose:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear team")),
		UseText: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "use text as id")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "predict")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide results")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Choose, k.Clear, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Up, k.Down, k.Choose},
		{k.Clear, k.UseText, k.Toggle, k.Submit, k.Dismiss, k.Quit},
	}
}
