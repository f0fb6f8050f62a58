// Package rendering draws charts as PNG images and renders the dashboard page.
package rendering

import (
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/turtacn/themedash/internal/application/linechart"
	"github.com/turtacn/themedash/internal/application/starburst"
	"github.com/turtacn/themedash/pkg/errors"
)

// Image defaults when a chart carries no size.
const (
	DefaultWidth  = 1024
	DefaultHeight = 512
)

const (
	barWidth   = 18
	barSpacing = 6
)

// RenderLinePNG draws c as a line chart.  Date X values get a time axis;
// anything else is plotted by position.
func RenderLinePNG(w io.Writer, c *linechart.Chart) error {
	if c == nil || c.Len() < 2 {
		return errors.New(errors.ErrCodeInvalidData, "line chart needs at least two points")
	}

	var series chart.Series
	xAxis := chart.XAxis{Name: c.XLabel}
	if times, ok := c.Times(); ok {
		series = chart.TimeSeries{
			Name:    c.YLabel,
			XValues: times,
			YValues: c.Y,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		}
		xAxis.ValueFormatter = chart.TimeDateValueFormatter
	} else {
		xs := make([]float64, c.Len())
		for i := range xs {
			xs[i] = float64(i)
		}
		series = chart.ContinuousSeries{
			Name:    c.YLabel,
			XValues: xs,
			YValues: c.Y,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		}
	}

	graph := chart.Chart{
		Title:  c.Title,
		Width:  orDefault(c.Width, DefaultWidth),
		Height: orDefault(c.Height, DefaultHeight),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis:  xAxis,
		YAxis:  chart.YAxis{Name: c.YLabel},
		Series: []chart.Series{series},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to render line chart")
	}
	return nil
}

// RenderStarburstPNG draws the counted themes as bars grouped by domain in
// canonical order, each bar filled with its domain color.
func RenderStarburstPNG(w io.Writer, c *starburst.Chart) error {
	if c == nil || c.Points() == 0 {
		return errors.New(errors.ErrCodeInvalidData, "starburst chart has no themes to draw")
	}

	bars := make([]chart.Value, 0, c.Points())
	for _, s := range c.Series {
		color := hexColor(s.Color)
		for i, th := range s.Themes {
			bars = append(bars, chart.Value{
				Label: string(th),
				Value: float64(s.Counts[i]),
				Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
			})
		}
	}

	width := len(bars)*(barWidth+barSpacing) + 120
	if width < DefaultWidth {
		width = DefaultWidth
	}
	graph := chart.BarChart{
		Title:      c.Title,
		Width:      width,
		Height:     DefaultHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Bottom: 80},
		},
		XAxis:        chart.Style{TextRotationDegrees: 90},
		YAxis:        chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(c.RadialMax)}},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return errors.Wrap(err, errors.ErrCodeRenderFailed, "failed to render starburst chart")
	}
	return nil
}

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
