package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide configuration for cmd/pcmk-scheduld, loaded
// once at startup and never consulted by pkg/scheduler.Schedule itself.
type Config struct {
	// LogLevel is one of trace/debug/info/warn/error, per pkg/log.
	LogLevel string `yaml:"log_level"`
	// LogJSON selects structured JSON logging over the human console writer.
	LogJSON bool `yaml:"log_json"`

	// MetricsAddr is the bind address for the Prometheus /metrics endpoint.
	// Empty disables the metrics server.
	MetricsAddr string `yaml:"metrics_addr"`

	// HistoryPath is the directory holding the bbolt file (history.db) that
	// backs pkg/history's ring buffer of past transition graphs. Empty
	// disables history recording.
	HistoryPath string `yaml:"history_path"`
	// HistoryRetain caps how many past transitions pkg/history keeps.
	HistoryRetain int `yaml:"history_retain"`

	// MinRecheckInterval floors the --interval of "run --watch", preventing
	// a pathologically tight scheduling loop. It does not apply to the
	// cluster-recheck-interval a CIB document sets.
	MinRecheckInterval time.Duration `yaml:"min_recheck_interval"`
}

// Default returns the configuration cmd/pcmk-scheduld starts from before
// applying an optional YAML file on top.
func Default() *Config {
	return &Config{
		LogLevel:           "info",
		LogJSON:            false,
		MetricsAddr:        ":9099",
		HistoryPath:        "",
		HistoryRetain:      50,
		MinRecheckInterval: 10 * time.Second,
	}
}

// Load reads a YAML configuration file at path, overlaying it onto
// Default(). A missing path is not an error - it just returns the
// defaults, mirroring how the CLI falls back to flag defaults when no
// config file is given.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
