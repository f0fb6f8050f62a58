package starburst

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/pkg/errors"
)

func records(themes ...strengths.Theme) []strengths.Record {
	out := make([]strengths.Record, len(themes))
	for i, th := range themes {
		out[i] = strengths.Record{Theme: th}
	}
	return out
}

// randomRecords draws n records from the default taxonomy with a fixed seed.
func randomRecords(seed int64, n int) []strengths.Record {
	themes := strengths.DefaultTaxonomy().Themes()
	rng := rand.New(rand.NewSource(seed))
	out := make([]strengths.Record, n)
	for i := range out {
		out[i] = strengths.Record{Theme: themes[rng.Intn(len(themes))]}
	}
	return out
}

func seriesOf(t *testing.T, c *Chart, d strengths.Domain) Series {
	t.Helper()
	for _, s := range c.Series {
		if s.Domain == d {
			return s
		}
	}
	t.Fatalf("no series for %s", d)
	return Series{}
}

func TestCountThemes_SumEqualsRecordCount(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		recs := randomRecords(seed, int(seed)*7)
		assert.Equal(t, len(recs), CountThemes(recs).Total(), "seed %d", seed)
	}
}

func TestCountThemes_Empty(t *testing.T) {
	c := CountThemes(nil)
	assert.Empty(t, c)
	assert.Equal(t, 0, c.Max())
}

func TestThemeCounts_Sorted(t *testing.T) {
	c := ThemeCounts{"Woo": 1, "Achiever": 2, "Focus": 1}
	assert.Equal(t, []strengths.Theme{"Achiever", "Focus", "Woo"}, c.Sorted())
}

func TestBuildDomainSeries_OnlyThemesOfDomain(t *testing.T) {
	b := NewBuilder(nil)
	tax := b.Taxonomy()
	counts := CountThemes(randomRecords(42, 200))

	for _, d := range strengths.Domains() {
		s, err := b.BuildDomainSeries(counts, d)
		require.NoError(t, err)
		assert.Equal(t, d, s.Domain)
		assert.Equal(t, BarWidth, s.Width)
		require.Len(t, s.Counts, len(s.Themes))
		for i, th := range s.Themes {
			got, ok := tax.DomainOf(th)
			require.True(t, ok)
			assert.Equal(t, d, got)
			assert.Equal(t, counts[th], s.Counts[i])
		}
		color, _ := tax.Color(d)
		assert.Equal(t, color, s.Color)
	}
}

func TestBuildDomainSeries_CanonicalOrder(t *testing.T) {
	b := NewBuilder(nil)
	s, err := b.BuildDomainSeries(ThemeCounts{"Restorative": 1, "Achiever": 3, "Focus": 2}, strengths.DomainExecuting)
	require.NoError(t, err)
	assert.Equal(t, []strengths.Theme{"Achiever", "Focus", "Restorative"}, s.Themes)
	assert.Equal(t, []int{3, 2, 1}, s.Counts)
}

func TestBuildDomainSeries_EmptyDomain(t *testing.T) {
	s, err := NewBuilder(nil).BuildDomainSeries(ThemeCounts{"Woo": 1}, strengths.DomainExecuting)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Themes)
}

func TestBuildDomainSeries_UnknownDomain(t *testing.T) {
	_, err := NewBuilder(nil).BuildDomainSeries(ThemeCounts{}, "Thinking")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownDomain))
}

func TestBuildChart_SeriesCoverCountedThemesExactly(t *testing.T) {
	b := NewBuilder(nil)
	for seed := int64(1); seed <= 10; seed++ {
		recs := randomRecords(seed, 50)
		chart, err := b.BuildChart(recs, "t")
		require.NoError(t, err)

		seen := map[strengths.Theme]int{}
		for _, s := range chart.Series {
			for _, th := range s.Themes {
				seen[th]++
			}
		}
		counts := CountThemes(recs)
		assert.Len(t, seen, len(counts))
		for th := range counts {
			assert.Equal(t, 1, seen[th], "theme %s", th)
		}
		assert.Equal(t, counts.Max(), chart.RadialMax)
	}
}

func TestBuildChart_AchieverAchieverWoo(t *testing.T) {
	chart, err := NewBuilder(nil).BuildChart(records("Achiever", "Achiever", "Woo"), "Team strengths")
	require.NoError(t, err)

	assert.Equal(t, ThemeCounts{"Achiever": 2, "Woo": 1}, chart.Counts)
	require.Len(t, chart.Series, 4)
	assert.Equal(t, strengths.Domains()[0], chart.Series[0].Domain)

	exec := seriesOf(t, chart, strengths.DomainExecuting)
	assert.Equal(t, []strengths.Theme{"Achiever"}, exec.Themes)
	assert.Equal(t, []int{2}, exec.Counts)

	infl := seriesOf(t, chart, strengths.DomainInfluencing)
	assert.Equal(t, []strengths.Theme{"Woo"}, infl.Themes)
	assert.Equal(t, []int{1}, infl.Counts)

	assert.Equal(t, 0, seriesOf(t, chart, strengths.DomainStrategicThinking).Len())
	assert.Equal(t, 0, seriesOf(t, chart, strengths.DomainRelationshipBuilding).Len())

	assert.Equal(t, 2, chart.RadialMax)
	assert.Equal(t, "Team strengths", chart.Title)
	assert.Equal(t, 3, chart.Points())
}

func TestBuildChart_Empty(t *testing.T) {
	chart, err := NewBuilder(nil).BuildChart(nil, "")
	require.NoError(t, err)
	assert.Empty(t, chart.Counts)
	require.Len(t, chart.Series, 4)
	for _, s := range chart.Series {
		assert.Equal(t, 0, s.Len())
	}
	assert.Equal(t, 0, chart.RadialMax)
	assert.Len(t, chart.CategoryOrder, 34)
}

func TestBuildChart_UnmappedTheme(t *testing.T) {
	chart, err := NewBuilder(nil).BuildChart(records("Achiever", "Unknown"), "x")
	require.Error(t, err)
	assert.Nil(t, chart)
	assert.True(t, strengths.IsUnmappedTheme(err))
	assert.Contains(t, err.Error(), "Unknown")
}

func TestBuildChart_UnmappedThemeReportedDeterministically(t *testing.T) {
	for i := 0; i < 10; i++ {
		_, err := NewBuilder(nil).BuildChart(records("Zeal", "Woo", "Alpha", "Zeal"), "x")
		require.True(t, strengths.IsUnmappedTheme(err))
		assert.Contains(t, err.Error(), `theme="Alpha"`)
	}
}

func TestBuildChart_CustomTaxonomyInjected(t *testing.T) {
	tax, err := strengths.NewTaxonomy([]strengths.Entry{
		{Theme: "Red", Domain: strengths.DomainExecuting},
		{Theme: "Blue", Domain: strengths.DomainInfluencing},
	}, strengths.DefaultColors())
	require.NoError(t, err)

	chart, err := NewBuilder(tax).BuildChart(records("Red", "Blue", "Blue"), "")
	require.NoError(t, err)
	assert.Equal(t, []strengths.Theme{"Blue", "Red"}, chart.CategoryOrder)

	_, err = NewBuilder(tax).BuildChart(records("Achiever"), "")
	assert.True(t, strengths.IsUnmappedTheme(err))
}

func TestChart_Figure(t *testing.T) {
	chart, err := NewBuilder(nil).BuildChart(records("Achiever", "Achiever", "Woo"), "Team")
	require.NoError(t, err)

	fig := chart.Figure()
	require.Len(t, fig.Data, 4)
	for _, tr := range fig.Data {
		assert.Equal(t, "barpolar", tr.Type)
		assert.Len(t, tr.Width, len(tr.R))
	}
	exec := fig.Data[3]
	assert.Equal(t, "Executing", exec.Name)
	assert.Equal(t, []float64{2}, exec.R)
	assert.Equal(t, []string{"Achiever"}, exec.Theta)
	assert.Equal(t, []float64{1}, exec.Width)
	assert.Equal(t, "#7B2481", exec.Marker.Color)

	require.NotNil(t, fig.Layout.Polar)
	assert.Equal(t, [2]float64{0, 2}, fig.Layout.Polar.RadialAxis.Range)
	assert.Len(t, fig.Layout.Polar.AngularAxis.CategoryArray, 34)
	assert.Equal(t, "Team", fig.Layout.Title.Text)

	raw, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"categoryarray":["Analytical"`)
	assert.Contains(t, string(raw), `"radialaxis":{"range":[0,2]}`)
}
