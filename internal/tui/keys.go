package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Skip    key.Binding
	Reflect key.Binding
	Up      key.Binding
	Down    key.Binding
	Answer  key.Binding
	Debug   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Skip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "skip"),
		),
		Reflect: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "to reflection"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Answer: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "answer"),
		),
		Debug: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "debug"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Skip, k.Reflect, k.Answer, k.Debug, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Skip, k.Reflect},
		{k.Up, k.Down, k.Answer},
		{k.Debug, k.Quit},
	}
}

type debugKeyMap struct {
	Randomize key.Binding
	Jump      key.Binding
	Lower     key.Binding
	Raise     key.Binding
	Phase     key.Binding
	Breath    key.Binding
	Snapshot  key.Binding
	Close     key.Binding
}

func defaultDebugKeyMap() debugKeyMap {
	return debugKeyMap{
		Randomize: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "randomize → duo")),
		Jump:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "jump")),
		Lower:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "index -1")),
		Raise:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "index +1")),
		Phase:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "next phase")),
		Breath:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "test breath")),
		Snapshot:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "snapshot")),
		Close:     key.NewBinding(key.WithKeys("esc", "ctrl+d"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap.
func (k debugKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Randomize, k.Jump, k.Lower, k.Raise, k.Phase, k.Breath, k.Snapshot, k.Close}
}

// FullHelp implements help.KeyMap.
func (k debugKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
