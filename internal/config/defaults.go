package config

import (
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8050
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "themedash"
	DefaultMetricsPath      = "/metrics"

	DefaultHTTPTimeout = 30 * time.Second
	DefaultMaxBytes    = 32 << 20

	DefaultDBMaxConns = 4

	DefaultDashboardTitle       = "My Dashboard"
	DefaultDashboardDescription = "A practice visualization dashboard."
	DefaultPlotlyURL            = "https://cdn.plot.ly/plotly-2.27.0.min.js"

	DefaultThemeColumn = "Theme"

	// AppleStockURL is the sample time series shown by the default line chart.
	AppleStockURL = "https://raw.githubusercontent.com/curran/data/gh-pages/plotlyExamples/2014_apple_stock.csv"
)

// DefaultCharts is the panel list used when the configuration declares none.
func DefaultCharts() []ChartConfig {
	return []ChartConfig{
		{
			Name:    "aapl",
			Kind:    KindLine,
			Title:   "Apple stock price, 2014",
			Source:  SourceConfig{Location: AppleStockURL},
			XColumn: "AAPL_x",
			YColumn: "AAPL_y",
			Width:   1200,
			Height:  628,
		},
		{
			Name:        "strengths",
			Kind:        KindStarburst,
			Title:       "Team strengths by domain",
			Source:      SourceConfig{Location: "data/strengths.csv"},
			ThemeColumn: DefaultThemeColumn,
		},
	}
}

// ApplyDefaults fills every zero-value field in cfg with its default.  Fields
// that have already been set are left unchanged so explicit configuration
// always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	// ── Dataset ───────────────────────────────────────────────────────────────
	if cfg.Dataset.HTTPTimeout == 0 {
		cfg.Dataset.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.Dataset.MaxBytes == 0 {
		cfg.Dataset.MaxBytes = DefaultMaxBytes
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}

	// ── Dashboard ─────────────────────────────────────────────────────────────
	if cfg.Dashboard.Title == "" {
		cfg.Dashboard.Title = DefaultDashboardTitle
	}
	if cfg.Dashboard.Description == "" {
		cfg.Dashboard.Description = DefaultDashboardDescription
	}
	if cfg.Dashboard.PlotlyURL == "" {
		cfg.Dashboard.PlotlyURL = DefaultPlotlyURL
	}

	// ── Charts ────────────────────────────────────────────────────────────────
	if len(cfg.Charts) == 0 {
		cfg.Charts = DefaultCharts()
	}
	for i := range cfg.Charts {
		ch := &cfg.Charts[i]
		ch.Kind = strings.ToLower(strings.TrimSpace(ch.Kind))
		if ch.Kind == KindStarburst && ch.ThemeColumn == "" {
			ch.ThemeColumn = DefaultThemeColumn
		}
		if ch.Title == "" {
			ch.Title = ch.Name
		}
	}
}
