package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "THEMEDASH"

// newViper builds a Viper instance with the standard settings: YAML file
// type, THEMEDASH_ env prefix, automatic env binding, and a key replacer that
// maps "." → "_" so that nested keys like "server.port" resolve to
// "THEMEDASH_SERVER_PORT".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Booleans whose default is true cannot be told apart from an unset
	// field after unmarshalling, so they are defaulted here.
	v.SetDefault("metrics.process_metrics", true)
	v.SetDefault("metrics.go_metrics", true)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"server.host", "server.port", "server.shutdown_timeout",
		"log.level", "log.format",
		"metrics.namespace", "metrics.path",
		"dataset.base_dir", "dataset.http_timeout", "dataset.max_bytes",
		"minio.endpoint", "minio.access_key_id", "minio.secret_access_key", "minio.use_ssl", "minio.region",
		"dashboard.title", "dashboard.description", "dashboard.plotly_url",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the YAML file at configPath, merges any THEMEDASH_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from THEMEDASH_* environment variables and
// defaults, with no config file required.
//
//	THEMEDASH_<SECTION>_<FIELD>   e.g.  THEMEDASH_SERVER_PORT, THEMEDASH_LOG_LEVEL
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrEnv calls Load when configPath is set and LoadFromEnv otherwise.
func LoadOrEnv(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file changes on disk.  It is meant for hot-reloading safe
// settings such as the log level; callers apply only that subset.
//
// Watch is non-blocking.  When the changed file fails to parse or validate,
// onError (if non-nil) receives the error and onChange is not called.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)

	// Initial read; callers should call Load first.
	_ = v.ReadInConfig()

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
