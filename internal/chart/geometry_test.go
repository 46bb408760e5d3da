package chart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bars(values ...float64) []Bar {
	out := make([]Bar, len(values))
	for i, v := range values {
		out[i] = Bar{Label: fmt.Sprintf("Season %d", i+1), Value: v}
	}
	return out
}

func TestLayoutExample(t *testing.T) {
	g := Layout(bars(0, 50, 100, 75), 760, 0, DefaultConfig())

	require.Len(t, g.Bars, 4)
	assert.Equal(t, 760.0*9/16, g.Height)
	assert.False(t, g.Steep)
	assert.Equal(t, -60.0, g.Angle)
	assert.Equal(t, 120.0, g.Margins.Bottom)
	assert.Equal(t, 760.0-46-12, g.InnerWidth)
	assert.Equal(t, g.Height-20-120, g.InnerHeight)
	assert.Equal(t, g.InnerWidth/4, g.Band)
	assert.InDelta(t, g.Band*0.7, g.BarWidth, 1e-9)

	top := g.Bars[2]
	for i, b := range g.Bars {
		assert.LessOrEqual(t, top.Rect.Y, b.Rect.Y, "bar %d", i)
	}
	assert.Equal(t, g.Margins.Top, top.Rect.Y)
	assert.Equal(t, g.InnerHeight, top.Rect.H)

	floor := g.Bars[0]
	assert.Equal(t, 0.0, floor.Rect.H)
	assert.Equal(t, g.Margins.Top+g.InnerHeight, floor.Rect.Y)

	assert.Equal(t, "75", g.Bars[3].ValueText)
	assert.Equal(t, g.Bars[3].Rect.Y-6, g.Bars[3].ValueAt.Y)
}

func TestLayoutBarsCentredInBand(t *testing.T) {
	g := Layout(bars(10, 20, 30), 760, 400, DefaultConfig())
	for i, b := range g.Bars {
		bandStart := g.Margins.Left + float64(i)*g.Band
		assert.InDelta(t, bandStart+g.Band/2, b.Rect.X+b.Rect.W/2, 1e-9)
		assert.InDelta(t, bandStart+g.Band/2, b.LabelAt.X, 1e-9)
		assert.Equal(t, g.Margins.Top+g.InnerHeight+18, b.LabelAt.Y)
		assert.Equal(t, "end", b.LabelAnchor)
	}
}

func TestLayoutInvariants(t *testing.T) {
	sizes := [][2]float64{{760, 0}, {760, 260}, {320, 200}, {100, 50}, {10, 10}, {0, 0}, {2000, 900}}
	counts := []int{1, 2, 7, 13, 100, 1000}
	for _, sz := range sizes {
		for _, n := range counts {
			vals := make([]float64, n)
			for i := range vals {
				vals[i] = float64((i*37)%141) - 20
			}
			g := Layout(bars(vals...), sz[0], sz[1], DefaultConfig())
			require.Len(t, g.Bars, n, "size %v n %d", sz, n)
			for i, b := range g.Bars {
				assert.GreaterOrEqual(t, b.Rect.W, 2.0, "size %v n %d bar %d", sz, n, i)
				assert.GreaterOrEqual(t, b.Rect.H, 0.0)
				assert.LessOrEqual(t, b.Rect.H, g.InnerHeight)
			}
		}
	}
}

func TestLayoutEmpty(t *testing.T) {
	g := Layout(nil, 760, 0, DefaultConfig())
	assert.Empty(t, g.Bars)
	assert.Equal(t, 0.0, g.Band)
	assert.Len(t, g.Gridlines, len(Ticks))
}

func TestLayoutRotationPresets(t *testing.T) {
	cfg := DefaultConfig()

	narrow := Layout(bars(50), 500, 400, cfg)
	assert.True(t, narrow.Steep)
	assert.Equal(t, -90.0, narrow.Angle)
	assert.Equal(t, 140.0, narrow.Margins.Bottom)

	wide := Layout(bars(50), 501, 400, cfg)
	assert.False(t, wide.Steep)
	assert.Equal(t, 120.0, wide.Margins.Bottom)
	assert.Greater(t, narrow.Margins.Bottom, wide.Margins.Bottom)

	cfg.SteepBelow = 900
	assert.True(t, Layout(bars(50), 760, 0, cfg).Steep)
}

func TestLayoutAnchorFollowsAngle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShallowAngle = 30
	g := Layout(bars(50, 60), 760, 0, cfg)
	for _, b := range g.Bars {
		assert.Equal(t, "start", b.LabelAnchor)
	}
}

func TestLayoutGridlines(t *testing.T) {
	g := Layout(bars(40), 760, 300, DefaultConfig())
	require.Len(t, g.Gridlines, 11)
	for i, gl := range g.Gridlines {
		assert.Equal(t, i*10, gl.Tick)
		assert.Equal(t, g.Margins.Left, gl.X1)
		assert.Equal(t, g.Margins.Left+g.InnerWidth, gl.X2)
		assert.Equal(t, g.Margins.Left-8, gl.LabelAt.X)
		assert.Equal(t, gl.Y+4, gl.LabelAt.Y)
	}
	assert.Equal(t, g.Margins.Top+g.InnerHeight, g.Gridlines[0].Y)
	assert.Equal(t, g.Margins.Top, g.Gridlines[10].Y)
}

func TestLayoutClampsValues(t *testing.T) {
	g := Layout(bars(-30, 180), 760, 0, DefaultConfig())
	assert.Equal(t, 0.0, g.Bars[0].Value)
	assert.Equal(t, 0.0, g.Bars[0].Rect.H)
	assert.Equal(t, 100.0, g.Bars[1].Value)
	assert.Equal(t, g.InnerHeight, g.Bars[1].Rect.H)
	assert.Equal(t, "100", g.Bars[1].ValueText)
}

func TestLayoutDeterministic(t *testing.T) {
	in := bars(12, 88, 45, 67, 3)
	assert.Equal(t, Layout(in, 640, 360, DefaultConfig()), Layout(in, 640, 360, DefaultConfig()))
}

func TestValues(t *testing.T) {
	got := Values([]string{"a", "b", "c"}, []float64{1, 2})
	assert.Equal(t, []Bar{{"a", 1}, {"b", 2}, {"c", 0}}, got)
}
