package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Send       key.Binding
	Check      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Check: key.NewBinding(
			key.WithKeys("ctrl+k", "f5"),
			key.WithHelp("ctrl+k", "check connection"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k keyMap) hints() []key.Binding {
	return []key.Binding{k.Send, k.Check, k.ScrollUp, k.ScrollDown, k.Quit}
}
