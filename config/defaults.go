package config

import "time"

const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultServerAddr         = ":8080"
	DefaultDocumentRoot       = "."
	DefaultServerMode         = "release"
	DefaultReadTimeout        = 30 * time.Second
	DefaultWriteTimeout       = 60 * time.Second
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultMaxBodyBytes int64 = 10 << 20

	DefaultMetricsPath = "/metrics"

	DefaultCLIConcurrency = 4
	DefaultCLIOutput      = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Fields already set are left unchanged so that explicit configuration
// always wins. Booleans are defaulted by the loader instead.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.DocumentRoot == "" {
		cfg.Server.DocumentRoot = DefaultDocumentRoot
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.CLI.Concurrency == 0 {
		cfg.CLI.Concurrency = DefaultCLIConcurrency
	}
	if cfg.CLI.Output == "" {
		cfg.CLI.Output = DefaultCLIOutput
	}

	cfg.Heuristics = cfg.Heuristics.WithDefaults()
}

// Default returns a Config holding only defaults, with metrics enabled.
func Default() *Config {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg)
	return cfg
}
