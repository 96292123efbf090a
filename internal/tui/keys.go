package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding

	Toggle     key.Binding
	Next       key.Binding
	Prev       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	Select     key.Binding

	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Cancel key.Binding
	Retry  key.Binding
}

var keys = keyMap{
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
	PrevPanel: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous panel")),

	Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
	Next:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
	Prev:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev")),
	VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "volume")),
	VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
	SeekBack:   key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "seek")),
	SeekFwd:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "seek forward")),
	Select:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "select track")),

	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/route")),
	Cancel: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel route")),
	Retry:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "retry route")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Toggle, k.Next, k.Prev, k.VolumeUp, k.NextPanel}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help, k.NextPanel, k.PrevPanel},
		{k.Toggle, k.Next, k.Prev, k.VolumeUp, k.VolumeDown, k.SeekBack, k.SeekFwd, k.Select},
		{k.Up, k.Down, k.Enter, k.Cancel, k.Retry},
	}
}
