// Package strengths models CliftonStrengths-style themes and the four
// domains that partition them.  The Taxonomy is built once and never mutated;
// callers share it freely across goroutines.
package strengths

import (
	"sort"

	"github.com/turtacn/themedash/pkg/errors"
)

// Theme is a single strengths label, e.g. "Achiever".
type Theme string

// Domain is one of the four higher-level theme groupings.
type Domain string

const (
	DomainStrategicThinking    Domain = "Strategic Thinking"
	DomainRelationshipBuilding Domain = "Relationship Building"
	DomainInfluencing          Domain = "Influencing"
	DomainExecuting            Domain = "Executing"
)

// Domains returns the four domains in their fixed enumeration order.
func Domains() []Domain {
	return []Domain{
		DomainStrategicThinking,
		DomainRelationshipBuilding,
		DomainInfluencing,
		DomainExecuting,
	}
}

// Entry assigns a Theme to its Domain.
type Entry struct {
	Theme  Theme
	Domain Domain
}

// Taxonomy holds the immutable Theme→Domain and Domain→color tables together
// with the canonical theme order used for chart axes.
type Taxonomy struct {
	domains []Domain
	byTheme map[Theme]Domain
	colors  map[Domain]string
	order   []Theme
}

// NewTaxonomy validates entries and colors and builds a Taxonomy.  The
// canonical theme order groups themes by domain in Domains() order and, within
// a domain, keeps the order in which entries were given.
func NewTaxonomy(entries []Entry, colors map[Domain]string) (*Taxonomy, error) {
	known := make(map[Domain]bool, 4)
	for _, d := range Domains() {
		known[d] = true
		if colors[d] == "" {
			return nil, errors.New(errors.ErrCodeInvalidTaxonomy, "domain has no color").
				WithDetailf("domain=%q", d)
		}
	}

	byTheme := make(map[Theme]Domain, len(entries))
	for _, e := range entries {
		if e.Theme == "" {
			return nil, errors.New(errors.ErrCodeInvalidTaxonomy, "empty theme name")
		}
		if !known[e.Domain] {
			return nil, errors.New(errors.ErrCodeInvalidTaxonomy, "theme assigned to unknown domain").
				WithDetailf("theme=%q domain=%q", e.Theme, e.Domain)
		}
		if prev, dup := byTheme[e.Theme]; dup {
			return nil, errors.New(errors.ErrCodeInvalidTaxonomy, "theme listed twice").
				WithDetailf("theme=%q domains=%q,%q", e.Theme, prev, e.Domain)
		}
		byTheme[e.Theme] = e.Domain
	}

	order := make([]Theme, 0, len(entries))
	for _, d := range Domains() {
		for _, e := range entries {
			if e.Domain == d {
				order = append(order, e.Theme)
			}
		}
	}

	colorsCopy := make(map[Domain]string, len(colors))
	for d, c := range colors {
		if known[d] {
			colorsCopy[d] = c
		}
	}

	return &Taxonomy{
		domains: Domains(),
		byTheme: byTheme,
		colors:  colorsCopy,
		order:   order,
	}, nil
}

// DomainOf returns the domain of theme.
func (t *Taxonomy) DomainOf(theme Theme) (Domain, bool) {
	d, ok := t.byTheme[theme]
	return d, ok
}

// MustDomainOf is DomainOf returning ErrCodeUnmappedTheme for unknown themes.
func (t *Taxonomy) MustDomainOf(theme Theme) (Domain, error) {
	d, ok := t.byTheme[theme]
	if !ok {
		return "", UnmappedThemeError(theme)
	}
	return d, nil
}

// Color returns the display color of domain.
func (t *Taxonomy) Color(domain Domain) (string, bool) {
	c, ok := t.colors[domain]
	return c, ok
}

// Domains returns the taxonomy's domains in enumeration order.
func (t *Taxonomy) Domains() []Domain {
	out := make([]Domain, len(t.domains))
	copy(out, t.domains)
	return out
}

// Themes returns every theme in canonical order.
func (t *Taxonomy) Themes() []Theme {
	out := make([]Theme, len(t.order))
	copy(out, t.order)
	return out
}

// ThemesOf returns the themes of domain in canonical order.
func (t *Taxonomy) ThemesOf(domain Domain) []Theme {
	var out []Theme
	for _, th := range t.order {
		if t.byTheme[th] == domain {
			out = append(out, th)
		}
	}
	return out
}

// Len returns the number of themes.
func (t *Taxonomy) Len() int { return len(t.order) }

// UnmappedThemeError builds the error returned when a theme has no domain.
func UnmappedThemeError(theme Theme) error {
	return errors.New(errors.ErrCodeUnmappedTheme, "unmapped theme").
		WithDetailf("theme=%q", theme)
}

// IsUnmappedTheme reports whether err was caused by a theme missing from the
// taxonomy.
func IsUnmappedTheme(err error) bool {
	return errors.IsCode(err, errors.ErrCodeUnmappedTheme)
}

// ─────────────────────────────────────────────────────────────────────────────
// Default CliftonStrengths taxonomy
// ─────────────────────────────────────────────────────────────────────────────

// defaultColors are the domain colors used by the strengths report.
var defaultColors = map[Domain]string{
	DomainStrategicThinking:    "#00945D",
	DomainRelationshipBuilding: "#0070CD",
	DomainInfluencing:          "#E97200",
	DomainExecuting:            "#7B2481",
}

var defaultThemes = map[Domain][]Theme{
	DomainStrategicThinking: {
		"Analytical", "Context", "Futuristic", "Ideation",
		"Input", "Intellection", "Learner", "Strategic",
	},
	DomainRelationshipBuilding: {
		"Adaptability", "Connectedness", "Developer", "Empathy", "Harmony",
		"Includer", "Individualization", "Positivity", "Relator",
	},
	DomainInfluencing: {
		"Activator", "Command", "Communication", "Competition",
		"Maximizer", "Self-Assurance", "Significance", "Woo",
	},
	DomainExecuting: {
		"Achiever", "Arranger", "Belief", "Consistency", "Deliberative",
		"Discipline", "Focus", "Responsibility", "Restorative",
	},
}

// DefaultEntries returns the CliftonStrengths theme list, alphabetical within
// each domain.
func DefaultEntries() []Entry {
	var entries []Entry
	for _, d := range Domains() {
		themes := append([]Theme(nil), defaultThemes[d]...)
		sort.Slice(themes, func(i, j int) bool { return themes[i] < themes[j] })
		for _, th := range themes {
			entries = append(entries, Entry{Theme: th, Domain: d})
		}
	}
	return entries
}

// DefaultColors returns a copy of the default domain colors.
func DefaultColors() map[Domain]string {
	out := make(map[Domain]string, len(defaultColors))
	for d, c := range defaultColors {
		out[d] = c
	}
	return out
}

// DefaultTaxonomy returns the CliftonStrengths taxonomy.
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(DefaultEntries(), DefaultColors())
	if err != nil {
		panic("strengths: default taxonomy is invalid: " + err.Error())
	}
	return t
}
