package chart

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// eighths are lower block glyphs for partially filled cells.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

type canvas struct {
	rows [][]cell
	w, h int
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, rows: make([][]cell, h)}
	for i := range c.rows {
		c.rows[i] = make([]cell, w)
	}
	return c
}

func (c *canvas) put(x, y int, r rune, st lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.rows[y][x] = cell{r: r, style: st, set: true}
}

func (c *canvas) text(x, y int, s string, st lipgloss.Style) {
	for i, r := range []rune(s) {
		c.put(x+i, y, r, st)
	}
}

// Terminal draws g, laid out with TerminalConfig, as colored text.
func Terminal(g Geometry) string {
	w, h := int(g.Width), int(g.Height)
	if w <= 0 || h <= 0 {
		return ""
	}
	c := newCanvas(w, h)
	grid := lipgloss.NewStyle().Faint(true)
	muted := lipgloss.NewStyle().Faint(true)
	plain := lipgloss.NewStyle()

	lastLabelRow := -1
	for i := len(g.Gridlines) - 1; i >= 0; i-- {
		gl := g.Gridlines[i]
		row := int(math.Floor(gl.Y))
		if row >= int(g.Margins.Top+g.InnerHeight) {
			row--
		}
		for x := int(gl.X1); x < int(gl.X2); x++ {
			c.put(x, row, '─', grid)
		}
		if row != lastLabelRow {
			label := strconv.Itoa(gl.Tick)
			c.text(int(gl.LabelAt.X)-len(label), row, label, muted)
			lastLabelRow = row
		}
	}

	for _, b := range g.Bars {
		st := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color.Hex()))
		x0 := int(math.Floor(b.Rect.X))
		x1 := int(math.Floor(b.Rect.X + b.Rect.W))
		if x1 <= x0 {
			x1 = x0 + 1
		}
		top, bottom := b.Rect.Y, b.Rect.Y+b.Rect.H
		for row := int(math.Floor(top)); row < int(math.Ceil(bottom)); row++ {
			cover := math.Min(float64(row+1), bottom) - math.Max(float64(row), top)
			glyph := eighths[int(math.Round(cover*8))]
			if glyph == ' ' {
				continue
			}
			for x := x0; x < x1; x++ {
				c.put(x, row, glyph, st)
			}
		}
		vy := int(math.Floor(b.ValueAt.Y))
		if vy < 0 {
			vy = 0
		}
		c.text(int(b.ValueAt.X)-len(b.ValueText)/2, vy, b.ValueText, plain)

		lx, ly := int(b.LabelAt.X), int(b.LabelAt.Y)
		if g.Steep {
			for i, r := range []rune(b.Label) {
				c.put(lx, ly+i, r, muted)
			}
			continue
		}
		label := truncate(b.Label, int(g.Band)-1)
		c.text(lx-len([]rune(label))/2, ly, label, muted)
	}

	var sb strings.Builder
	for y, row := range c.rows {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for _, cl := range row {
			if !cl.set {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(cl.style.Render(string(cl.r)))
		}
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
