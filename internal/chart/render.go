package chart

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/idilsaglam/rate/internal/colorscale"
)

// Format selects the image encoding of Render.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// FormatFromPath picks a Format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return SVG, nil
	case ".png":
		return PNG, nil
	}
	return "", fmt.Errorf("unsupported image type %q (want .svg or .png)", filepath.Ext(path))
}

var (
	gridColor  = drawing.Color{R: 128, G: 128, B: 128, A: 64}
	axisColor  = drawing.Color{R: 128, G: 128, B: 128, A: 160}
	textColor  = drawing.Color{R: 40, G: 40, B: 40, A: 255}
	mutedColor = drawing.Color{R: 110, G: 110, B: 110, A: 255}
	barStroke  = drawing.Color{R: 255, G: 255, B: 255, A: 51}
)

// Render draws g through a go-chart renderer and encodes it to w.
func Render(w io.Writer, g Geometry, format Format) error {
	provider := gochart.SVG
	if format == PNG {
		provider = gochart.PNG
	}
	r, err := provider(int(math.Ceil(g.Width)), int(math.Ceil(g.Height)))
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("font: %w", err)
	}
	r.SetFont(font)

	drawGrid(r, g)
	drawBars(r, g)
	drawLabels(r, g)
	drawAxis(r, g)

	if err := r.Save(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func drawGrid(r gochart.Renderer, g Geometry) {
	for _, gl := range g.Gridlines {
		r.SetStrokeColor(gridColor)
		r.SetStrokeWidth(1)
		r.MoveTo(px(gl.X1), px(gl.Y))
		r.LineTo(px(gl.X2), px(gl.Y))
		r.Stroke()

		r.SetFontColor(textColor)
		r.SetFontSize(12)
		label := fmt.Sprint(gl.Tick)
		tw := float64(r.MeasureText(label).Width())
		r.Text(label, px(gl.LabelAt.X-tw), px(gl.LabelAt.Y))
	}
}

func drawBars(r gochart.Renderer, g Geometry) {
	for _, b := range g.Bars {
		rc := b.Rect
		r.SetFillColor(fill(b.Color))
		r.SetStrokeColor(barStroke)
		r.SetStrokeWidth(1)
		r.MoveTo(px(rc.X), px(rc.Y))
		r.LineTo(px(rc.X+rc.W), px(rc.Y))
		r.LineTo(px(rc.X+rc.W), px(rc.Y+rc.H))
		r.LineTo(px(rc.X), px(rc.Y+rc.H))
		r.Close()
		r.FillStroke()

		r.SetFontColor(textColor)
		r.SetFontSize(14)
		tw := float64(r.MeasureText(b.ValueText).Width())
		r.Text(b.ValueText, px(b.ValueAt.X-tw/2), px(b.ValueAt.Y))
	}
}

// drawLabels writes category labels rotated by the layout angle. Text runs
// along the rotated baseline, so an end anchor starts it one text length
// back along that direction.
func drawLabels(r gochart.Renderer, g Geometry) {
	rad := g.Angle * math.Pi / 180
	r.SetFontColor(mutedColor)
	r.SetFontSize(12)
	for _, b := range g.Bars {
		x, y := b.LabelAt.X, b.LabelAt.Y
		if b.LabelAnchor == "end" {
			tw := float64(r.MeasureText(b.Label).Width())
			x -= tw * math.Cos(rad)
			y -= tw * math.Sin(rad)
		}
		r.SetTextRotation(rad)
		r.Text(b.Label, px(x), px(y))
		r.ClearTextRotation()
	}
}

func drawAxis(r gochart.Renderer, g Geometry) {
	left, top := g.Margins.Left, g.Margins.Top
	r.SetStrokeColor(axisColor)
	r.SetStrokeWidth(1)
	r.MoveTo(px(left), px(top))
	r.LineTo(px(left), px(top+g.InnerHeight))
	r.Stroke()

	const title = "Rating"
	r.SetFontColor(mutedColor)
	r.SetFontSize(12)
	tw := float64(r.MeasureText(title).Width())
	r.SetTextRotation(-math.Pi / 2)
	r.Text(title, px(left-32), px(top+g.InnerHeight/2+tw/2))
	r.ClearTextRotation()
}

func fill(c colorscale.Color) drawing.Color {
	n := c.NRGBA()
	return drawing.Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

func px(v float64) int {
	return int(math.Round(v))
}
