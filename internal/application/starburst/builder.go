// Package starburst aggregates strengths survey records into per-domain theme
// counts and lays them out as a polar bar ("starburst") chart.
package starburst

import (
	"sort"

	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/pkg/errors"
	"github.com/turtacn/themedash/pkg/types/figure"
)

// BarWidth is the angular width of every bar, in category units.
const BarWidth = 1.0

// ThemeCounts maps a theme to the number of records bearing it.
type ThemeCounts map[strengths.Theme]int

// CountThemes counts the occurrences of each distinct theme.
func CountThemes(records []strengths.Record) ThemeCounts {
	counts := make(ThemeCounts)
	for _, r := range records {
		counts[r.Theme]++
	}
	return counts
}

// Total returns the sum of all counts.
func (c ThemeCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Max returns the largest single count, 0 when c is empty.
func (c ThemeCounts) Max() int {
	m := 0
	for _, v := range c {
		if v > m {
			m = v
		}
	}
	return m
}

// Sorted returns the themes of c ordered by count descending, then name.
func (c ThemeCounts) Sorted() []strengths.Theme {
	out := make([]strengths.Theme, 0, len(c))
	for th := range c {
		out = append(out, th)
	}
	sort.Slice(out, func(i, j int) bool {
		if c[out[i]] != c[out[j]] {
			return c[out[i]] > c[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Series is the bar group of one domain.  Themes and Counts are parallel.
type Series struct {
	Domain strengths.Domain  `json:"domain"`
	Color  string            `json:"color"`
	Themes []strengths.Theme `json:"themes"`
	Counts []int             `json:"counts"`
	Width  float64           `json:"width"`
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Themes) }

// Chart is the complete starburst: one Series per domain plus axis settings.
type Chart struct {
	Title         string            `json:"title"`
	Series        []Series          `json:"series"`
	RadialMax     int               `json:"radial_max"`
	CategoryOrder []strengths.Theme `json:"category_order"`
	Counts        ThemeCounts       `json:"counts"`
}

// Points returns the number of bars across all series.
func (c *Chart) Points() int {
	n := 0
	for _, s := range c.Series {
		n += s.Len()
	}
	return n
}

// Builder turns records into Charts using an injected Taxonomy.
type Builder struct {
	taxonomy *strengths.Taxonomy
}

// NewBuilder returns a Builder for taxonomy.  A nil taxonomy selects
// strengths.DefaultTaxonomy.
func NewBuilder(taxonomy *strengths.Taxonomy) *Builder {
	if taxonomy == nil {
		taxonomy = strengths.DefaultTaxonomy()
	}
	return &Builder{taxonomy: taxonomy}
}

// Taxonomy returns the builder's taxonomy.
func (b *Builder) Taxonomy() *strengths.Taxonomy { return b.taxonomy }

// BuildDomainSeries keeps the counted themes of domain, in canonical order.
// A domain with no counted themes yields an empty Series.
func (b *Builder) BuildDomainSeries(counts ThemeCounts, domain strengths.Domain) (Series, error) {
	color, ok := b.taxonomy.Color(domain)
	if !ok {
		return Series{}, errors.New(errors.ErrCodeUnknownDomain, "unknown domain").
			WithDetailf("domain=%q", domain)
	}
	s := Series{
		Domain: domain,
		Color:  color,
		Themes: []strengths.Theme{},
		Counts: []int{},
		Width:  BarWidth,
	}
	for _, th := range b.taxonomy.ThemesOf(domain) {
		if n, present := counts[th]; present {
			s.Themes = append(s.Themes, th)
			s.Counts = append(s.Counts, n)
		}
	}
	return s, nil
}

// BuildChart counts records and builds one Series per domain.  Any theme
// missing from the taxonomy fails the whole chart.
func (b *Builder) BuildChart(records []strengths.Record, title string) (*Chart, error) {
	counts := CountThemes(records)

	themes := make([]strengths.Theme, 0, len(counts))
	for th := range counts {
		themes = append(themes, th)
	}
	sort.Slice(themes, func(i, j int) bool { return themes[i] < themes[j] })
	for _, th := range themes {
		if _, err := b.taxonomy.MustDomainOf(th); err != nil {
			return nil, err
		}
	}

	chart := &Chart{
		Title:         title,
		Series:        make([]Series, 0, 4),
		RadialMax:     counts.Max(),
		CategoryOrder: b.taxonomy.Themes(),
		Counts:        counts,
	}
	for _, d := range b.taxonomy.Domains() {
		s, err := b.BuildDomainSeries(counts, d)
		if err != nil {
			return nil, err
		}
		chart.Series = append(chart.Series, s)
	}
	return chart, nil
}

// Figure converts the chart into plotly barpolar traces.
func (c *Chart) Figure() figure.Figure {
	fig := figure.Figure{Data: make([]figure.Trace, 0, len(c.Series))}
	for _, s := range c.Series {
		r := make([]float64, len(s.Counts))
		widths := make([]float64, len(s.Counts))
		for i, n := range s.Counts {
			r[i] = float64(n)
			widths[i] = s.Width
		}
		theta := make([]string, len(s.Themes))
		for i, th := range s.Themes {
			theta[i] = string(th)
		}
		fig.Data = append(fig.Data, figure.Trace{
			Type:   "barpolar",
			Name:   string(s.Domain),
			R:      r,
			Theta:  theta,
			Width:  widths,
			Marker: &figure.Marker{Color: s.Color},
		})
	}

	order := make([]string, len(c.CategoryOrder))
	for i, th := range c.CategoryOrder {
		order[i] = string(th)
	}
	fig.Layout = figure.Layout{
		ShowLegend: figure.Bool(true),
		Polar: &figure.Polar{
			RadialAxis: &figure.RadialAxis{Range: [2]float64{0, float64(c.RadialMax)}},
			AngularAxis: &figure.AngularAxis{
				CategoryOrder: "array",
				CategoryArray: order,
				Direction:     "clockwise",
			},
		},
	}
	if c.Title != "" {
		fig.Layout.Title = &figure.Title{Text: c.Title}
	}
	return fig
}
