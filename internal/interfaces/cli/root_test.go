package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/themedash/internal/app"
	"github.com/turtacn/themedash/internal/domain/strengths"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
	"github.com/turtacn/themedash/pkg/errors"
)

const testConfigYAML = `
log:
  level: error
dataset:
  base_dir: %s
charts:
  - name: team
    kind: starburst
    title: Team strengths
    source:
      location: team.csv
  - name: prices
    kind: line
    source:
      location: prices.csv
    x_column: date
    y_column: close
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var team strings.Builder
	team.WriteString("Name,Theme\n")
	for i := 0; i < 1200; i++ {
		team.WriteString("p,Achiever\n")
	}
	team.WriteString("q,Woo\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "team.csv"), []byte(team.String()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prices.csv"),
		[]byte("date,close\n2014-01-02,79.01\n2014-01-03,77.28\n2014-01-06,77.70\n"), 0o644))

	path := filepath.Join(dir, "config.yaml")
	yaml := strings.Replace(testConfigYAML, "%s", dir, 1)
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(app.New)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "themedash", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"list", "counts", "figure", "render", "version"} {
		assert.True(t, names[want], want)
	}

	for _, flag := range []string{"config", "log-level", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestVersion_NeedsNoConfig(t *testing.T) {
	Version = "1.0.0"
	defer func() { Version = "dev" }()

	out, err := run(t, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "themedash 1.0.0")
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	_, err := run(t, "list", "--config", writeTestConfig(t), "-o", "xml")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest) || errors.IsCode(err, errors.ErrCodeValidation))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := run(t, "list", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, err := run(t, "list", "--config", writeTestConfig(t), "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger initialization failed")
}

func TestList(t *testing.T) {
	out, err := run(t, "list", "--config", writeTestConfig(t), "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "team")
	assert.Contains(t, out, "starburst")
	assert.Contains(t, out, "prices")
}

func TestCounts_Text(t *testing.T) {
	out, err := run(t, "counts", "team", "--config", writeTestConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "Woo (Influencing): 1\nAchiever (Executing): 1,200\ntotal: 1,201\n", out)
}

func TestCounts_ByCount(t *testing.T) {
	out, err := run(t, "counts", "team", "--config", writeTestConfig(t), "--by-count")
	require.NoError(t, err)
	assert.Equal(t, "Achiever (Executing): 1,200\nWoo (Influencing): 1\ntotal: 1,201\n", out)
}

func TestPrintError_UnmappedThemeHint(t *testing.T) {
	cmd := newRootCommand(app.New)
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	PrintError(cmd, strengths.UnmappedThemeError("Acheiver"))
	assert.Contains(t, stderr.String(), `theme="Acheiver"`)
	assert.Contains(t, stderr.String(), "Hint:")

	stderr.Reset()
	PrintError(cmd, errors.NotFound("panel not found"))
	assert.NotContains(t, stderr.String(), "Hint:")
}

func TestCounts_JSON(t *testing.T) {
	out, err := run(t, "counts", "team", "--config", writeTestConfig(t), "-o", "json")
	require.NoError(t, err)

	var res CountsResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1201, res.Total)
	assert.Equal(t, []CountsLine{
		{Theme: "Woo", Domain: "Influencing", Count: 1},
		{Theme: "Achiever", Domain: "Executing", Count: 1200},
	}, res.Counts)
}

func TestCounts_Table(t *testing.T) {
	out, err := run(t, "counts", "team", "--config", writeTestConfig(t), "-o", "table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "THEME"))
	assert.True(t, strings.HasPrefix(lines[4], "TOTAL"))
	assert.Contains(t, lines[4], "1,201")
}

func TestCounts_XLSXExport(t *testing.T) {
	xlsx := filepath.Join(t.TempDir(), "counts.xlsx")
	_, err := run(t, "counts", "team", "--config", writeTestConfig(t), "--xlsx", xlsx)
	require.NoError(t, err)

	f, err := os.Open(xlsx)
	require.NoError(t, err)
	defer f.Close()
	tbl, err := dataset.ParseXLSX(f, "Counts")
	require.NoError(t, err)
	assert.Equal(t, []string{"Theme", "Domain", "Count"}, tbl.Columns)
	assert.Equal(t, []string{"Achiever", "Executing", "1200"}, tbl.Rows[1])
}

func TestCounts_LineChartRejected(t *testing.T) {
	_, err := run(t, "counts", "prices", "--config", writeTestConfig(t))
	assert.True(t, errors.IsCode(err, errors.ErrCodeWrongChartKind))
}

func TestCounts_UnknownChart(t *testing.T) {
	_, err := run(t, "counts", "nope", "--config", writeTestConfig(t))
	assert.True(t, errors.IsNotFound(err))
}

func TestFigure(t *testing.T) {
	out, err := run(t, "figure", "prices", "--config", writeTestConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "scatter"`)

	path := filepath.Join(t.TempDir(), "fig.json")
	out, err = run(t, "figure", "team", "--config", writeTestConfig(t), "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: wrote "+path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"barpolar"`)
}

func TestRender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.png")
	out, err := run(t, "render", "team", "--config", writeTestConfig(t), "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: wrote "+path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")))
}

func TestFormatTable(t *testing.T) {
	got := FormatTable([]string{"A", "LONG"}, [][]string{{"xyz", "1"}, {"q"}})
	assert.Equal(t, "A    LONG\n---  ----\nxyz  1   \nq        \n", got)
	assert.Empty(t, FormatTable(nil, nil))
}
