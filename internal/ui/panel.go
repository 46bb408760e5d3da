package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/rate/internal/colorscale"
	"github.com/idilsaglam/rate/internal/model"
)

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel prints lines inside a frame.
func Panel(lines []string) { fmt.Println(PanelString(strings.Join(lines, "\n"))) }

// Meter renders a rating as a bar tinted by its score, followed by the number.
func Meter(rating, width int) string {
	if width < 5 {
		width = 5
	}
	rating = model.Clamp(rating)
	filled := rating * width / model.MaxRating
	bar := strings.Repeat(current.MeterFull, filled) + strings.Repeat(current.MeterEmpty, width-filled)
	style := lipgloss.NewStyle()
	if current.Colored {
		style = style.Foreground(lipgloss.Color(colorscale.For(float64(rating)).Hex()))
	}
	return fmt.Sprintf("%s %3d", style.Render(bar), rating)
}

// Legend shows the low, middle and high swatches.
func Legend() string {
	parts := make([]string, 0, 3)
	for _, l := range colorscale.Legend() {
		sw := current.MeterFull + current.MeterFull
		if current.Colored {
			sw = lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color.Hex())).Render(sw)
		}
		parts = append(parts, fmt.Sprintf("%s %d", sw, l.Score))
	}
	return current.Muted.Render("Legend ") + strings.Join(parts, "  ")
}
