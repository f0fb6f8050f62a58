// Package app wires configuration into the dataset loader, the dashboard
// service and their supporting infrastructure.  Both the server and the CLI
// build on it.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/turtacn/themedash/internal/application/dashboard"
	"github.com/turtacn/themedash/internal/config"
	"github.com/turtacn/themedash/internal/infrastructure/database/postgres"
	"github.com/turtacn/themedash/internal/infrastructure/dataset"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/themedash/internal/infrastructure/storage/minio"
)

// HealthCheck checks one external dependency.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// App holds the assembled components.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Loader    *dataset.Loader
	Service   dashboard.Service
	Checks    []HealthCheck

	objects *minio.MinIOClient
}

// NewLogger builds the zap-backed logger described by cfg.
func NewLogger(cfg config.LogConfig) (logging.Logger, error) {
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      cfg.Format,
		OutputPaths: cfg.OutputPaths,
	})
}

// New assembles an App from a validated configuration.  Nothing is
// contacted until the first chart is built.
func New(cfg *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: cfg.Metrics.ProcessMetrics,
		EnableGoMetrics:      cfg.Metrics.GoMetrics,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Collector: collector,
		Metrics:   metrics,
	}

	opts := []dataset.Option{
		dataset.WithHTTPClient(&http.Client{Timeout: cfg.Dataset.HTTPTimeout}),
		dataset.WithBaseDir(cfg.Dataset.BaseDir),
		dataset.WithMaxBytes(cfg.Dataset.MaxBytes),
		dataset.WithLogger(logger.Named("dataset")),
		dataset.WithMetrics(metrics),
		dataset.WithDatabase(dataset.PostgresOpener(postgresConfig(cfg.Database), logger.Named("postgres"))),
	}
	if cfg.MinIO.Endpoint != "" {
		a.objects, err = minio.NewMinIOClient(minioConfig(cfg.MinIO), logger.Named("minio"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, dataset.WithObjectStore(a.objects))
		a.Checks = append(a.Checks, HealthCheck{Name: "minio", Check: func(ctx context.Context) error {
			_, err := a.objects.HealthCheck(ctx)
			return err
		}})
	}
	a.Loader = dataset.NewLoader(opts...)

	seen := make(map[string]bool)
	for _, ch := range cfg.Charts {
		src := dataset.Source{Location: ch.Source.Location}
		if scheme, err := src.Scheme(); err != nil || scheme != dataset.SchemePostgres || seen[ch.Source.Location] {
			continue
		}
		dsn := ch.Source.Location
		seen[dsn] = true
		a.Checks = append(a.Checks, HealthCheck{
			Name:  "postgres:" + postgres.RedactDSN(dsn),
			Check: func(ctx context.Context) error { return a.Loader.PingDatabase(ctx, dsn) },
		})
	}

	a.Service, err = dashboard.NewService(
		dashboard.PanelsFromConfig(cfg.Charts),
		a.Loader,
		nil,
		dashboard.Options{
			Title:       cfg.Dashboard.Title,
			Description: cfg.Dashboard.Description,
			PlotlyURL:   cfg.Dashboard.PlotlyURL,
		},
		logger,
		metrics,
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases database pools and the object store client.
func (a *App) Close() error {
	var firstErr error
	if a.Loader != nil {
		firstErr = a.Loader.Close()
	}
	if a.objects != nil {
		if err := a.objects.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func minioConfig(c config.MinIOConfig) minio.MinIOConfig {
	return minio.MinIOConfig{
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
		UseSSL:          c.UseSSL,
		Region:          c.Region,
		MaxObjectSize:   c.MaxObjectSize,
	}
}

func postgresConfig(c config.DatabaseConfig) postgres.PostgresConfig {
	return postgres.PostgresConfig{
		MaxConns:         c.MaxConns,
		MinConns:         c.MinConns,
		MaxConnLifetime:  c.ConnMaxLifetime,
		MaxConnIdleTime:  c.ConnMaxIdleTime,
		ConnectTimeout:   c.ConnectTimeout,
		StatementTimeout: c.StatementTimeout,
	}
}
