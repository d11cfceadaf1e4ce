package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	back     key.Binding
	tab      key.Binding
	register key.Binding
	recs     key.Binding
	export   key.Binding
	explore  key.Binding
	open     key.Binding
	remove   key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		register: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "register")),
		recs:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recommendations")),
		export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		explore:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to passport")),
		open:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		remove:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.recs, k.export, k.explore, k.open, k.remove},
		{k.tab, k.register, k.quit},
	}
}
