// Package figure holds the subset of the plotly.js figure schema produced by
// themedash.  A Figure marshals to JSON that Plotly.newPlot accepts as-is.
package figure

// Figure is a plotly.js figure: data traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one plotly trace.  Only the fields used by the line and barpolar
// charts are modelled; unset fields are omitted.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X []interface{} `json:"x,omitempty"`
	Y []float64     `json:"y,omitempty"`

	// Polar traces.
	R     []float64 `json:"r,omitempty"`
	Theta []string  `json:"theta,omitempty"`
	Width []float64 `json:"width,omitempty"`

	Marker *Marker `json:"marker,omitempty"`
	Line   *Line   `json:"line,omitempty"`
}

// Marker styles bars and points.
type Marker struct {
	Color string `json:"color,omitempty"`
}

// Line styles a scatter line.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// Layout is the plotly layout object.
type Layout struct {
	Title      *Title `json:"title,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	ShowLegend *bool  `json:"showlegend,omitempty"`
	XAxis      *Axis  `json:"xaxis,omitempty"`
	YAxis      *Axis  `json:"yaxis,omitempty"`
	Polar      *Polar `json:"polar,omitempty"`
}

// Title is a layout or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis is a cartesian axis.
type Axis struct {
	Title *Title `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Polar configures the polar subplot.
type Polar struct {
	RadialAxis  *RadialAxis  `json:"radialaxis,omitempty"`
	AngularAxis *AngularAxis `json:"angularaxis,omitempty"`
}

// RadialAxis sets the fixed radial range.
type RadialAxis struct {
	Range [2]float64 `json:"range"`
}

// AngularAxis fixes the category placement around the circle.
type AngularAxis struct {
	CategoryOrder string   `json:"categoryorder,omitempty"`
	CategoryArray []string `json:"categoryarray,omitempty"`
	Direction     string   `json:"direction,omitempty"`
}

// Bool returns a pointer to b for optional layout flags.
func Bool(b bool) *bool { return &b }
