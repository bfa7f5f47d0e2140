// Package config provides configuration loading, defaults, and validation for
// the docreview command and server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/vocab"
)

// Config is the root configuration.
type Config struct {
	Log     logging.LogConfig `mapstructure:"log" yaml:"log" json:"log"`
	Server  ServerConfig      `mapstructure:"server" yaml:"server" json:"server"`
	Metrics MetricsConfig     `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
	CLI     CLIConfig         `mapstructure:"cli" yaml:"cli" json:"cli"`

	// Heuristics overrides the keyword lists. Lists left empty keep their
	// defaults.
	Heuristics vocab.Vocabulary `mapstructure:"heuristics" yaml:"heuristics" json:"heuristics"`
}

// ServerConfig configures the HTTP review service.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`

	// DocumentRoot is the directory documents are served from. Requests
	// name documents by base name only.
	DocumentRoot string `mapstructure:"document_root" yaml:"document_root" json:"document_root"`

	// Mode is the gin mode: debug, release or test.
	Mode string `mapstructure:"mode" yaml:"mode" json:"mode"`

	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" json:"max_body_bytes"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`
}

// CLIConfig configures the command-line tool.
type CLIConfig struct {
	// Concurrency bounds how many documents are reviewed at once.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`

	// Output is the default output format: json, yaml or text.
	Output string `mapstructure:"output" yaml:"output" json:"output"`
}

// Validate checks cfg for values the program cannot run with. Call it after
// ApplyDefaults.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if c.Server.DocumentRoot == "" {
		return fmt.Errorf("config: server.document_root is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("config: server timeouts must be positive")
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("config: server.max_body_bytes must be ≥ 1, got %d", c.Server.MaxBodyBytes)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
	}

	if c.CLI.Concurrency < 1 {
		return fmt.Errorf("config: cli.concurrency must be ≥ 1, got %d", c.CLI.Concurrency)
	}
	switch c.CLI.Output {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("config: cli.output %q is invalid; expected json|yaml|text", c.CLI.Output)
	}
	return nil
}
