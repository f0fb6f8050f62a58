package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 9090
  shutdown_timeout: 5s
log:
  level: debug
  format: console
metrics:
  go_metrics: false
dataset:
  base_dir: /srv/data
  http_timeout: 10s
minio:
  endpoint: "localhost:9000"
  access_key_id: "key"
  secret_access_key: "secret"
dashboard:
  title: "Team dashboard"
charts:
  - name: team
    kind: starburst
    title: "Our strengths"
    source:
      location: "s3://surveys/team.xlsx"
      sheet: "Answers"
  - name: sales
    kind: line
    source:
      location: "postgres://reader@db/sales"
      query: "SELECT day, total FROM daily"
    x_column: day
    y_column: total
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Metrics.ProcessMetrics)
	assert.False(t, cfg.Metrics.GoMetrics)
	assert.Equal(t, "/srv/data", cfg.Dataset.BaseDir)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "Team dashboard", cfg.Dashboard.Title)
	assert.Equal(t, DefaultDashboardDescription, cfg.Dashboard.Description)

	require.Len(t, cfg.Charts, 2)
	assert.Equal(t, "Answers", cfg.Charts[0].Source.Sheet)
	assert.Equal(t, DefaultThemeColumn, cfg.Charts[0].ThemeColumn)
	assert.Equal(t, "SELECT day, total FROM daily", cfg.Charts[1].Source.Query)
	assert.Equal(t, "sales", cfg.Charts[1].Title)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("THEMEDASH_SERVER_PORT", "7000")
	t.Setenv("THEMEDASH_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [port"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(writeConfig(t, "charts:\n  - name: x\n    kind: pie\n    source:\n      location: a.csv\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("THEMEDASH_DASHBOARD_TITLE", "From env")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "From env", cfg.Dashboard.Title)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Len(t, cfg.Charts, 2)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)

	cfg, err = LoadOrEnv(writeConfig(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := writeConfig(t, validConfigYAML)

	var level atomic.Value
	Watch(path, func(cfg *Config) { level.Store(cfg.Log.Level) }, func(err error) {})

	updated := strings.Replace(validConfigYAML, "level: debug", "level: error", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		v, _ := level.Load().(string)
		return v == "error"
	}, 5*time.Second, 20*time.Millisecond)
}
