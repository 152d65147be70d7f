// Package keymap defines the keybindings of the browser.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every keybinding of the browser.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding

	// Back returns to the previously open entity.
	Back key.Binding

	Up   key.Binding
	Down key.Binding

	// Open opens the selected reference.
	Open key.Binding

	// NextPage loads the next page of a paged collection.
	NextPage key.Binding

	// Reload fetches the open entity again.
	Reload key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
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
			key.WithHelp("enter", "open"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "load"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Back, k.NextPage, k.Quit}
}

// FullHelp returns every binding, grouped for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.NextPage, k.Reload},
		{k.Help, k.Quit},
	}
}
