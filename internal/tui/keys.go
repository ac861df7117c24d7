package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the calendar key bindings.
type keyMap struct {
	Add      key.Binding
	Open     key.Binding
	Refresh  key.Binding
	Prev     key.Binding
	Next     key.Binding
	Today    key.Binding
	Month    key.Binding
	Week     key.Binding
	Day      key.Binding
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	WeekUp   key.Binding
	WeekDown key.Binding
	Quit     key.Binding
	Force    key.Binding

	// Popup form.
	Save      key.Binding
	Delete    key.Binding
	Dismiss   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Prev:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev")),
		Next:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Month:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m/w/d", "view")),
		Week:     key.NewBinding(key.WithKeys("w")),
		Day:      key.NewBinding(key.WithKeys("d")),
		Left:     key.NewBinding(key.WithKeys("h", "left")),
		Right:    key.NewBinding(key.WithKeys("l", "right")),
		Up:       key.NewBinding(key.WithKeys("k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down")),
		WeekUp:   key.NewBinding(key.WithKeys("K", "shift+up")),
		WeekDown: key.NewBinding(key.WithKeys("J", "shift+down")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Force:    key.NewBinding(key.WithKeys("ctrl+c")),

		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Delete:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
		Dismiss:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up")),
		Submit:    key.NewBinding(key.WithKeys("enter")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Open, k.Refresh, k.Prev, k.Next, k.Today, k.Month, k.Quit}
}

// FormHelp returns the bindings shown under the popup form.
func (k keyMap) FormHelp(deleteVisible bool) []key.Binding {
	if deleteVisible {
		return []key.Binding{k.NextField, k.Save, k.Delete, k.Dismiss}
	}
	return []key.Binding{k.NextField, k.Save, k.Dismiss}
}
