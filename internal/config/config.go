// Package config defines all configuration structures for themedash.  No I/O
// or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Chart kinds.
const (
	KindLine      = "line"
	KindStarburst = "starburst"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // debug | info | warn | error
	Format      string   `mapstructure:"format"` // json | console
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Namespace      string `mapstructure:"namespace"`
	Path           string `mapstructure:"path"`
	ProcessMetrics bool   `mapstructure:"process_metrics"`
	GoMetrics      bool   `mapstructure:"go_metrics"`
}

// DatasetConfig tunes how data sets are fetched.
type DatasetConfig struct {
	BaseDir     string        `mapstructure:"base_dir"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MaxBytes    int64         `mapstructure:"max_bytes"`
}

// MinIOConfig enables s3:// sources when Endpoint is set.
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Region          string `mapstructure:"region"`
	MaxObjectSize   int64  `mapstructure:"max_object_size"`
}

// DatabaseConfig tunes the pools opened for postgres:// sources.
type DatabaseConfig struct {
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DashboardConfig holds page-level text.
type DashboardConfig struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	PlotlyURL   string `mapstructure:"plotly_url"`
}

// SourceConfig locates a chart's data set.
type SourceConfig struct {
	Location string `mapstructure:"location"`
	Format   string `mapstructure:"format"`
	Sheet    string `mapstructure:"sheet"`
	Query    string `mapstructure:"query"`
}

// ChartConfig declares one dashboard panel.
type ChartConfig struct {
	Name        string       `mapstructure:"name"`
	Kind        string       `mapstructure:"kind"`
	Title       string       `mapstructure:"title"`
	Source      SourceConfig `mapstructure:"source"`
	ThemeColumn string       `mapstructure:"theme_column"`
	XColumn     string       `mapstructure:"x_column"`
	YColumn     string       `mapstructure:"y_column"`
	Width       int          `mapstructure:"width"`
	Height      int          `mapstructure:"height"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	MinIO     MinIOConfig     `mapstructure:"minio"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Charts    []ChartConfig   `mapstructure:"charts"`
}

// Chart returns the chart named name.
func (c *Config) Chart(name string) (ChartConfig, bool) {
	for _, ch := range c.Charts {
		if ch.Name == name {
			return ch, true
		}
	}
	return ChartConfig{}, false
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

var chartNameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config: server timeouts must not be negative")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Metrics
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
	}

	// Dataset
	if c.Dataset.HTTPTimeout <= 0 {
		return fmt.Errorf("config: dataset.http_timeout must be > 0, got %s", c.Dataset.HTTPTimeout)
	}
	if c.Dataset.MaxBytes <= 0 {
		return fmt.Errorf("config: dataset.max_bytes must be > 0, got %d", c.Dataset.MaxBytes)
	}

	// MinIO
	if c.MinIO.Endpoint != "" && c.MinIO.AccessKeyID == "" {
		return fmt.Errorf("config: minio.access_key_id is required when minio.endpoint is set")
	}

	// Database
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("config: database.min_conns %d exceeds max_conns %d", c.Database.MinConns, c.Database.MaxConns)
	}

	// Charts
	if len(c.Charts) == 0 {
		return fmt.Errorf("config: at least one chart is required")
	}
	seen := make(map[string]bool, len(c.Charts))
	for i, ch := range c.Charts {
		if err := ch.validate(); err != nil {
			return fmt.Errorf("config: charts[%d]: %w", i, err)
		}
		if seen[ch.Name] {
			return fmt.Errorf("config: charts[%d]: duplicate chart name %q", i, ch.Name)
		}
		seen[ch.Name] = true
	}
	return nil
}

func (ch ChartConfig) validate() error {
	if !chartNameRE.MatchString(ch.Name) {
		return fmt.Errorf("name %q must match %s", ch.Name, chartNameRE)
	}
	if strings.TrimSpace(ch.Source.Location) == "" {
		return fmt.Errorf("chart %q: source.location is required", ch.Name)
	}
	if ch.Width < 0 || ch.Height < 0 {
		return fmt.Errorf("chart %q: width and height must not be negative", ch.Name)
	}
	switch ch.Kind {
	case KindLine:
		if ch.XColumn == "" || ch.YColumn == "" {
			return fmt.Errorf("chart %q: line charts need x_column and y_column", ch.Name)
		}
	case KindStarburst:
		if ch.ThemeColumn == "" {
			return fmt.Errorf("chart %q: theme_column is required", ch.Name)
		}
	default:
		return fmt.Errorf("chart %q: kind %q is invalid; expected line|starburst", ch.Name, ch.Kind)
	}
	return nil
}
