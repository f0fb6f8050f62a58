package dashboard

import (
	"github.com/turtacn/themedash/internal/config"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
)

// Panel is one chart on the dashboard.
type Panel struct {
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title"`
	Source      dataset.Source `json:"-"`
	ThemeColumn string         `json:"theme_column,omitempty"`
	XColumn     string         `json:"x_column,omitempty"`
	YColumn     string         `json:"y_column,omitempty"`
	Width       int            `json:"width,omitempty"`
	Height      int            `json:"height,omitempty"`
}

// PanelFromConfig converts a chart declaration.
func PanelFromConfig(c config.ChartConfig) Panel {
	return Panel{
		Name:  c.Name,
		Kind:  c.Kind,
		Title: c.Title,
		Source: dataset.Source{
			Location: c.Source.Location,
			Format:   dataset.Format(c.Source.Format),
			Sheet:    c.Source.Sheet,
			Query:    c.Source.Query,
		},
		ThemeColumn: c.ThemeColumn,
		XColumn:     c.XColumn,
		YColumn:     c.YColumn,
		Width:       c.Width,
		Height:      c.Height,
	}
}

// PanelsFromConfig converts every chart in order.
func PanelsFromConfig(charts []config.ChartConfig) []Panel {
	out := make([]Panel, 0, len(charts))
	for _, c := range charts {
		out = append(out, PanelFromConfig(c))
	}
	return out
}
