// Dashboard server entry point for themedash.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/themedash/internal/app"
	"github.com/turtacn/themedash/internal/application/rendering"
	"github.com/turtacn/themedash/internal/config"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	httpserver "github.com/turtacn/themedash/internal/interfaces/http"
	"github.com/turtacn/themedash/internal/interfaces/http/handlers"
	"github.com/turtacn/themedash/internal/interfaces/http/middleware"
)

const defaultConfigPath = "configs/config.yaml"

// Build-time variables injected via ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file (empty: environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *httpPort); err != nil {
		fmt.Fprintf(os.Stderr, "dashserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: %s not found, using environment and defaults\n", configPath)
			configPath = ""
		}
	}
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)
	logger.Info("starting themedash dashboard server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Int("charts", len(cfg.Charts)),
	)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close failed", logging.Err(err))
		}
	}()

	renderer, err := rendering.NewPageRenderer()
	if err != nil {
		return err
	}

	checkers := make([]handlers.HealthChecker, 0, len(a.Checks))
	for _, c := range a.Checks {
		checkers = append(checkers, handlers.NewCheckFunc(c.Name, c.Check))
	}

	loggingCfg := middleware.DefaultLoggingConfig()
	loggingCfg.SkipPaths = append(loggingCfg.SkipPaths, cfg.Metrics.Path)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ChartHandler:     handlers.NewChartHandler(a.Service, renderer, logger.Named("http")),
		HealthHandler:    handlers.NewHealthHandler(version, checkers...),
		Logging:          loggingCfg,
		Logger:           logger,
		Metrics:          a.Metrics,
		MetricsCollector: a.Collector,
		MetricsPath:      cfg.Metrics.Path,
	})
	srv := httpserver.NewServer(cfg.Server, router, logger)

	// Only the log level is reloaded; charts and sources need a restart.
	if configPath != "" {
		config.Watch(configPath, func(next *config.Config) {
			if err := logger.SetLevel(next.Log.Level); err != nil {
				logger.Warn("ignoring invalid log level", logging.String("level", next.Log.Level))
				return
			}
			logger.Info("configuration reloaded", logging.String("log_level", next.Log.Level))
		}, func(err error) {
			logger.Warn("configuration reload failed", logging.Err(err))
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("received signal", logging.String("signal", sig.String()))
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("HTTP server shutdown error", logging.Err(err))
		return err
	}
	return nil
}
