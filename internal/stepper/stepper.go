// Package stepper is a bounded integer editor with small and large steps.
// It holds no value of its own: the owner passes the current value in and
// applies whatever Adjust reports.
package stepper

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

const (
	SmallStep = 1
	LargeStep = 10
)

type Stepper struct {
	Min, Max int
	Disabled bool
}

// Adjust returns clamp(value+amount, Min, Max). The bool is false when the
// stepper is disabled, in which case value is returned untouched.
func (s Stepper) Adjust(value, amount int) (int, bool) {
	if s.Disabled {
		return value, false
	}
	return s.clamp(value + amount), true
}

func (s Stepper) clamp(v int) int {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// CanDecrement reports whether a decrement button is usable, ignoring Disabled.
func (s Stepper) CanDecrement(value int) bool { return value > s.Min }

// CanIncrement reports whether an increment button is usable, ignoring Disabled.
func (s Stepper) CanIncrement(value int) bool { return value < s.Max }

// Usable combines the bound check for the direction of amount with Disabled.
func (s Stepper) Usable(value, amount int) bool {
	if s.Disabled {
		return false
	}
	if amount < 0 {
		return s.CanDecrement(value)
	}
	if amount > 0 {
		return s.CanIncrement(value)
	}
	return true
}

// KeyMap binds the four step buttons.
type KeyMap struct {
	DecLarge, DecSmall, IncSmall, IncLarge key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		DecLarge: key.NewBinding(key.WithKeys("shift+left", "H", "pgdown"), key.WithHelp("H", "-10")),
		DecSmall: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-1")),
		IncSmall: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+1")),
		IncLarge: key.NewBinding(key.WithKeys("shift+right", "L", "pgup"), key.WithHelp("L", "+10")),
	}
}

// Amount maps a key to its step, or 0 when the key is not a step key.
func (k KeyMap) Amount(msg fmt.Stringer) int {
	switch {
	case key.Matches(msg, k.DecLarge):
		return -LargeStep
	case key.Matches(msg, k.DecSmall):
		return -SmallStep
	case key.Matches(msg, k.IncSmall):
		return SmallStep
	case key.Matches(msg, k.IncLarge):
		return LargeStep
	}
	return 0
}

var (
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	inactiveStyle = lipgloss.NewStyle().Faint(true)
	valueStyle    = lipgloss.NewStyle().Bold(true).Width(5).Align(lipgloss.Center)
)

// View renders the buttons around value. Unusable buttons are drawn faint.
func (s Stepper) View(value int) string {
	btn := func(label string, amount int) string {
		if s.Usable(value, amount) {
			return buttonStyle.Render("[" + label + "]")
		}
		return inactiveStyle.Render("[" + label + "]")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		btn("-10", -LargeStep), " ",
		btn("-1", -SmallStep),
		valueStyle.Render(fmt.Sprintf("%d", value)),
		btn("+1", SmallStep), " ",
		btn("+10", LargeStep),
	)
}
