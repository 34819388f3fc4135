package tui

import "github.com/charmbracelet/bubbles/key"

// WatchKeyMap drives the watch screen: enter runs the next step, r resets
// the engine, ? toggles help, q quits. Prev/Next (left/right) are bound and
// listed in the help bar, but WatchModel drives a single fixed copy and does
// not act on them.
type WatchKeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Step  key.Binding
	Reset key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func DefaultWatchKeyMap() WatchKeyMap {
	return WatchKeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev scenario"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next scenario"),
		),
		Step: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "run step"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Step, k.Reset, k.Quit}
}

func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.Step, k.Reset},
		{k.Help, k.Quit},
	}
}
