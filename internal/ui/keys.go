package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines all keyboard bindings for the widget.
type keyMap struct {
	Refresh     key.Binding
	CycleMode   key.Binding
	CycleTheme  key.Binding
	ToggleDebug key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r", "enter", " "),
			key.WithHelp("r", "refresh now"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle box/compact/text"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "cycle theme"),
		),
		ToggleDebug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle debug line"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.CycleMode, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, grouped as the
// help overlay shows them.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh},
		{k.CycleMode, k.CycleTheme, k.ToggleDebug},
		{k.Help, k.Quit},
	}
}

// helpSectionTitles names the FullHelp groups in order.
var helpSectionTitles = []string{"Status", "Display", "General"}

// bindingKeys lists every key of a binding the way the help overlay shows it.
func bindingKeys(b key.Binding) string {
	keys := make([]string, 0, len(b.Keys()))
	for _, k := range b.Keys() {
		if k == " " {
			k = "space"
		}
		keys = append(keys, k)
	}
	return strings.Join(keys, "/")
}
