package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/idilsaglam/rate/internal/stepper"
)

type keyMap struct {
	stepper.KeyMap
	Up, Down key.Binding
	Save     key.Binding
	Chart    key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		KeyMap: stepper.DefaultKeyMap(),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Save:   key.NewBinding(key.WithKeys("s", "ctrl+s", "enter"), key.WithHelp("s", "save")),
		Chart:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "chart")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.DecSmall, k.IncSmall, k.Save, k.Chart, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.DecLarge, k.DecSmall, k.IncSmall, k.IncLarge},
		{k.Save, k.Chart, k.Help, k.Quit},
	}
}
