// Package linechart builds single-series line charts from two table columns.
package linechart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/figure"
	"github.com/turtacn/themedash/pkg/types/table"
)

// timeLayouts are tried in order when interpreting X values as dates.
var timeLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// Spec selects the columns and display size of a line chart.
type Spec struct {
	Title   string
	XColumn string
	YColumn string
	Width   int
	Height  int
}

// Chart is a built line chart.
type Chart struct {
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Width  int       `json:"width,omitempty"`
	Height int       `json:"height,omitempty"`
}

// Build reads spec.XColumn as labels and spec.YColumn as numbers.
func Build(t *table.Table, spec Spec) (*Chart, error) {
	if t == nil {
		return nil, errors.New(errors.ErrCodeInvalidData, "no table")
	}
	if spec.Width < 0 || spec.Height < 0 {
		return nil, errors.New(errors.ErrCodeValidation, "chart size must not be negative").
			WithDetailf("width=%d height=%d", spec.Width, spec.Height)
	}
	xs, err := column(t, spec.XColumn)
	if err != nil {
		return nil, err
	}
	raw, err := column(t, spec.YColumn)
	if err != nil {
		return nil, err
	}

	ys := make([]float64, len(raw))
	for i, v := range raw {
		f, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			// Row numbers are 1-based and skip the header.
			return nil, errors.New(errors.ErrCodeInvalidData, "non-numeric value").
				WithDetailf("column=%q row=%d value=%q", spec.YColumn, i+2, v).
				WithCause(perr)
		}
		// JSON has no NaN or Inf.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.New(errors.ErrCodeInvalidData, "non-finite value").
				WithDetailf("column=%q row=%d value=%q", spec.YColumn, i+2, v)
		}
		ys[i] = f
	}
	for i := range xs {
		xs[i] = strings.TrimSpace(xs[i])
	}

	return &Chart{
		Title:  spec.Title,
		XLabel: spec.XColumn,
		YLabel: spec.YColumn,
		X:      xs,
		Y:      ys,
		Width:  spec.Width,
		Height: spec.Height,
	}, nil
}

func column(t *table.Table, name string) ([]string, error) {
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "column name is required")
	}
	vals, ok := t.Column(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingColumn, "column not found").
			WithDetailf("column=%q available=[%s]", name, strings.Join(t.Columns, ", "))
	}
	return vals, nil
}

// Len returns the number of points.
func (c *Chart) Len() int { return len(c.Y) }

// XIsTime reports whether every X value parses as a date.  An empty chart is
// not a time series.
func (c *Chart) XIsTime() bool {
	_, ok := c.Times()
	return ok
}

// Times parses every X value with the first layout that accepts it.
func (c *Chart) Times() ([]time.Time, bool) {
	if len(c.X) == 0 {
		return nil, false
	}
	out := make([]time.Time, len(c.X))
	for i, x := range c.X {
		ts, ok := parseTime(x)
		if !ok {
			return nil, false
		}
		out[i] = ts
	}
	return out, true
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Figure converts the chart into a plotly scatter trace in lines mode.
func (c *Chart) Figure() figure.Figure {
	xs := make([]interface{}, len(c.X))
	for i, x := range c.X {
		xs[i] = x
	}
	xType := "category"
	if c.XIsTime() {
		xType = "date"
	} else if c.xIsNumeric() {
		xType = "linear"
	}

	fig := figure.Figure{
		Data: []figure.Trace{{
			Type: "scatter",
			Mode: "lines",
			Name: c.YLabel,
			X:    xs,
			Y:    c.Y,
		}},
		Layout: figure.Layout{
			Width:  c.Width,
			Height: c.Height,
			XAxis:  &figure.Axis{Title: &figure.Title{Text: c.XLabel}, Type: xType},
			YAxis:  &figure.Axis{Title: &figure.Title{Text: c.YLabel}},
		},
	}
	if c.Title != "" {
		fig.Layout.Title = &figure.Title{Text: c.Title}
	}
	return fig
}

func (c *Chart) xIsNumeric() bool {
	if len(c.X) == 0 {
		return false
	}
	for _, x := range c.X {
		if _, err := strconv.ParseFloat(x, 64); err != nil {
			return false
		}
	}
	return true
}
