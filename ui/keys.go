package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	Back         key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	Category     key.Binding
	Period       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	OpenNews     key.Binding
	OpenYouTube  key.Binding
	Refresh      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

var keys = keyMap{
	Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "analyze")),
	Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	NextCategory: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next category")),
	PrevCategory: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev category")),
	Category:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "category")),
	Period:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "1mo/1yr")),
	ScrollUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
	ScrollDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
	OpenNews:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "news")),
	OpenYouTube:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "youtube")),
	Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.NextCategory, k.Period, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back},
		{k.NextCategory, k.PrevCategory, k.Category, k.Period},
		{k.ScrollUp, k.ScrollDown, k.OpenNews, k.OpenYouTube},
		{k.Refresh, k.Help, k.Quit},
	}
}
