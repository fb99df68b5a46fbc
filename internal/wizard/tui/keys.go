package tui

import "github.com/charmbracelet/bubbles/key"

// formKeyMap defines key bindings for the form screen
type formKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Submit  key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Toggle, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right},
		{k.Toggle, k.Submit, k.Dismiss, k.Quit},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "choose"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next option"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "submit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// modalKeyMap is shown while the confirmation or failure modal is open
type modalKeyMap struct {
	Retry   key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Dismiss, k.Quit}
}

func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Retry, k.Dismiss, k.Quit}}
}

func newModalKeyMap() modalKeyMap {
	return modalKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "retry"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
