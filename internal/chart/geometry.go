// Package chart lays out a 0-100 bar chart and draws it as SVG, PNG or
// terminal text.
package chart

import (
	"math"
	"strconv"

	"github.com/idilsaglam/rate/internal/colorscale"
)

// Ticks are the gridline values of the rating axis.
var Ticks = []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// Config holds the layout constants. Sizes are in output units: SVG user
// units for image output, cells for the terminal.
type Config struct {
	Top, Right, Left int

	// Two label rotation presets. Steep applies when width <= SteepBelow.
	SteepAngle, ShallowAngle   float64
	SteepBottom, ShallowBottom int
	SteepBelow                 float64

	BarRatio    float64
	MinBarWidth float64

	ValueOffset float64 // value label distance above the bar top
	LabelOffset float64 // category label distance below the plot
	TickGap     float64 // tick label distance left of the plot
	TickNudge   float64 // tick label baseline shift
}

// DefaultConfig is the layout used for image output.
func DefaultConfig() Config {
	return Config{
		Top: 20, Right: 12, Left: 46,
		SteepAngle: -90, ShallowAngle: -60,
		SteepBottom: 140, ShallowBottom: 120,
		SteepBelow:  500,
		BarRatio:    0.7,
		MinBarWidth: 2,
		ValueOffset: 6,
		LabelOffset: 18,
		TickGap:     8,
		TickNudge:   4,
	}
}

// TerminalConfig lays out in character cells.
func TerminalConfig() Config {
	return Config{
		Top: 1, Right: 1, Left: 5,
		SteepAngle: -90, ShallowAngle: 0,
		SteepBottom: 9, ShallowBottom: 2,
		SteepBelow:  60,
		BarRatio:    0.7,
		MinBarWidth: 2,
		ValueOffset: 1,
		LabelOffset: 1,
		TickGap:     1,
		TickNudge:   0,
	}
}

// Point is a position in output units, y growing downward.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

// Margins reserved around the plot area.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Bar is one input category.
type Bar struct {
	Label string
	Value float64
}

// BarGeometry is the placed form of a Bar.
type BarGeometry struct {
	Label       string
	Value       float64 // clamped
	Rect        Rect
	Color       colorscale.Color
	ValueText   string
	ValueAt     Point
	LabelAt     Point
	LabelAnchor string
}

// Gridline is a horizontal rule at one tick.
type Gridline struct {
	Tick    int
	Y       float64
	X1, X2  float64
	LabelAt Point
}

// Geometry is the declarative description handed to renderers.
type Geometry struct {
	Width, Height float64
	Margins       Margins
	InnerWidth    float64
	InnerHeight   float64
	Band          float64
	BarWidth      float64
	Angle         float64
	Steep         bool
	Bars          []BarGeometry
	Gridlines     []Gridline
}

// Layout computes the chart geometry for bars on a width x height canvas.
// A zero height defaults to 9/16 of the width.
func Layout(bars []Bar, width, height float64, cfg Config) Geometry {
	if height <= 0 {
		height = width * 9 / 16
	}

	g := Geometry{Width: width, Height: height}
	bottom := cfg.ShallowBottom
	g.Angle = cfg.ShallowAngle
	if width <= cfg.SteepBelow {
		bottom = cfg.SteepBottom
		g.Angle = cfg.SteepAngle
		g.Steep = true
	}
	g.Margins = Margins{
		Top:    float64(cfg.Top),
		Right:  float64(cfg.Right),
		Bottom: float64(bottom),
		Left:   float64(cfg.Left),
	}
	g.InnerWidth = math.Max(0, width-g.Margins.Left-g.Margins.Right)
	g.InnerHeight = math.Max(0, height-g.Margins.Top-g.Margins.Bottom)

	n := len(bars)
	if n > 0 {
		g.Band = g.InnerWidth / float64(n)
	}
	g.BarWidth = math.Max(cfg.MinBarWidth, g.Band*cfg.BarRatio)

	anchor := "start"
	if g.Angle < 0 {
		anchor = "end"
	}

	g.Bars = make([]BarGeometry, 0, n)
	for i, b := range bars {
		v := colorscale.Clamp(b.Value)
		x := g.Margins.Left + float64(i)*g.Band + (g.Band-g.BarWidth)/2
		y := g.y(v)
		g.Bars = append(g.Bars, BarGeometry{
			Label:       b.Label,
			Value:       v,
			Rect:        Rect{X: x, Y: y, W: g.BarWidth, H: g.barHeight(v)},
			Color:       colorscale.For(v),
			ValueText:   formatValue(v),
			ValueAt:     Point{X: x + g.BarWidth/2, Y: y - cfg.ValueOffset},
			LabelAt:     Point{X: g.Margins.Left + float64(i)*g.Band + g.Band/2, Y: g.Margins.Top + g.InnerHeight + cfg.LabelOffset},
			LabelAnchor: anchor,
		})
	}

	g.Gridlines = make([]Gridline, 0, len(Ticks))
	for _, t := range Ticks {
		y := g.y(float64(t))
		g.Gridlines = append(g.Gridlines, Gridline{
			Tick:    t,
			Y:       y,
			X1:      g.Margins.Left,
			X2:      g.Margins.Left + g.InnerWidth,
			LabelAt: Point{X: g.Margins.Left - cfg.TickGap, Y: y + cfg.TickNudge},
		})
	}
	return g
}

// Values pairs labels and values positionally; a missing value counts as 0.
func Values(labels []string, values []float64) []Bar {
	out := make([]Bar, len(labels))
	for i, l := range labels {
		out[i].Label = l
		if i < len(values) {
			out[i].Value = values[i]
		}
	}
	return out
}

func (g Geometry) y(v float64) float64 {
	return g.Margins.Top + g.InnerHeight - g.barHeight(v)
}

func (g Geometry) barHeight(v float64) float64 {
	return colorscale.Clamp(v) / 100 * g.InnerHeight
}

func formatValue(v float64) string {
	return strconv.Itoa(int(math.Floor(v + 0.5)))
}
