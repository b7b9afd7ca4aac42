package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the map browser.
type KeyMap struct {
	// Cursor movement on the map.
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Viewport.
	PanUp    key.Binding
	PanDown  key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding

	NextPin key.Binding
	PrevPin key.Binding

	// Select opens the history of the pin under the cursor, or the create
	// form on an empty cell.
	Select key.Binding
	Reload key.Binding

	// Form and overlay.
	Submit    key.Binding
	NextField key.Binding
	Cancel    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "left")),
	Right:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "right")),
	PanUp:    key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "pan up")),
	PanDown:  key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "pan down")),
	PanLeft:  key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "pan left")),
	PanRight: key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "pan right")),
	ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	NextPin:  key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n", "next pin")),
	PrevPin:  key.NewBinding(key.WithKeys("p", "shift+tab"), key.WithHelp("p", "prev pin")),
	Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

	Submit:    key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "submit")),
	NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
