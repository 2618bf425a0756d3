// Package config loads tool settings from an optional TOML file, with
// defaults matching the original interactive workflow.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mariogeiger/coverage-http/internal/logger"
)

// Config is the top-level TOML structure.
type Config struct {
	Listen       string        `mapstructure:"listen"`        // report server bind address
	ReportDir    string        `mapstructure:"report_dir"`    // directory served over HTTP
	Target       string        `mapstructure:"target"`        // initial test path
	Python       string        `mapstructure:"python"`        // interpreter command
	PollInterval time.Duration `mapstructure:"poll_interval"` // lifecycle watcher poll
	Grace        time.Duration `mapstructure:"grace"`         // forced-exit grace period

	Log     logger.Config `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	History HistoryConfig `mapstructure:"history"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"` // separate metrics address, e.g. 127.0.0.1:9090
}

type HistoryConfig struct {
	DSN string `mapstructure:"dsn"` // empty disables run recording
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:       "127.0.0.1:8080",
		ReportDir:    "htmlcov",
		Target:       ".",
		Python:       "python",
		PollInterval: 100 * time.Millisecond,
		Grace:        2 * time.Second,
		Log:          logger.Config{Level: "info", Color: true},
	}
}

// Load reads a TOML config file and merges it over the defaults. An empty
// path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := Default()
	if c.Listen == "" {
		c.Listen = def.Listen
	}
	if c.ReportDir == "" {
		c.ReportDir = def.ReportDir
	}
	if c.Target == "" {
		c.Target = def.Target
	}
	if c.Python == "" {
		c.Python = def.Python
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.Grace <= 0 {
		c.Grace = def.Grace
	}
	return c
}
