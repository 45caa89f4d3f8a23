package hover

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	left       key.Binding
	right      key.Binding
	nextWord   key.Binding
	prevWord   key.Binding
	copyLink   key.Binding
	toggleHelp key.Binding
	quit       key.Binding
}

func newKeyMap() *keyMap {
	return &keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		nextWord: key.NewBinding(
			key.WithKeys("w", "tab"),
			key.WithHelp("w", "next word"),
		),
		prevWord: key.NewBinding(
			key.WithKeys("b", "shift+tab"),
			key.WithHelp("b", "prev word"),
		),
		copyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k *keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.nextWord, k.prevWord, k.copyLink, k.toggleHelp, k.quit}
}

func (k *keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right},
		{k.nextWord, k.prevWord, k.copyLink},
		{k.toggleHelp, k.quit},
	}
}
