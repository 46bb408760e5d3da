package stepper

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func rating() Stepper { return Stepper{Min: 0, Max: 100} }

func TestAdjustIdempotentAtBounds(t *testing.T) {
	s := rating()

	v, ok := s.Adjust(100, SmallStep)
	assert.True(t, ok)
	assert.Equal(t, 100, v)

	v, ok = s.Adjust(0, -LargeStep)
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestAdjustClamps(t *testing.T) {
	s := rating()
	cases := []struct {
		value, amount, want int
	}{
		{50, 1, 51},
		{50, -1, 49},
		{50, 10, 60},
		{95, 10, 100},
		{5, -10, 0},
		{42, 0, 42},
		{10, 250, 100},
		{10, -250, 0},
	}
	for _, c := range cases {
		got, _ := s.Adjust(c.value, c.amount)
		assert.Equal(t, c.want, got, "Adjust(%d, %d)", c.value, c.amount)
	}
}

func TestAdjustDisabled(t *testing.T) {
	s := rating()
	s.Disabled = true
	v, ok := s.Adjust(40, LargeStep)
	assert.False(t, ok)
	assert.Equal(t, 40, v)
}

func TestButtonUsability(t *testing.T) {
	s := rating()
	assert.False(t, s.CanDecrement(0))
	assert.True(t, s.CanIncrement(0))
	assert.True(t, s.CanDecrement(100))
	assert.False(t, s.CanIncrement(100))

	// bound checks ignore Disabled
	s.Disabled = true
	assert.True(t, s.CanDecrement(50))
	assert.True(t, s.CanIncrement(50))
	assert.False(t, s.Usable(50, SmallStep))
}

func TestUsable(t *testing.T) {
	s := rating()
	assert.False(t, s.Usable(0, -SmallStep))
	assert.True(t, s.Usable(0, LargeStep))
	assert.False(t, s.Usable(100, LargeStep))
	assert.True(t, s.Usable(100, -LargeStep))
}

func TestKeyMapAmount(t *testing.T) {
	k := DefaultKeyMap()
	assert.Equal(t, -1, k.Amount(tea.KeyMsg{Type: tea.KeyLeft}))
	assert.Equal(t, 1, k.Amount(tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, -10, k.Amount(tea.KeyMsg{Type: tea.KeyShiftLeft}))
	assert.Equal(t, 10, k.Amount(tea.KeyMsg{Type: tea.KeyShiftRight}))
	assert.Equal(t, 10, k.Amount(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")}))
	assert.Equal(t, -1, k.Amount(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}))
	assert.Equal(t, 0, k.Amount(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}))
}

func TestView(t *testing.T) {
	out := rating().View(100)
	for _, want := range []string{"[-10]", "[-1]", "100", "[+1]", "[+10]"} {
		assert.True(t, strings.Contains(out, want), "missing %q in %q", want, out)
	}
}
