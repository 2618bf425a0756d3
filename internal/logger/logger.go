package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults follow lumberjack semantics.
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes the application log destination and format.
// When File is empty, logs go to stderr with ANSI level colors; with a file
// configured, output is duplicated to a size-rotated log file.
type Config struct {
	Level      string `mapstructure:"level"`        // debug|info|warn|error (default info)
	Color      bool   `mapstructure:"color"`        // colorize terminal output
	File       string `mapstructure:"file"`         // optional rotating log file
	MaxSizeMB  int    `mapstructure:"max_size_mb"`  // megabytes before rotation (default 10)
	MaxBackups int    `mapstructure:"max_backups"`  // number of backups to keep (default 3)
	MaxAgeDays int    `mapstructure:"max_age_days"` // days to keep (default 7)
	Compress   bool   `mapstructure:"compress"`     // gzip rotated files
}

// NewLogger builds a *slog.Logger from the config.
func (c Config) NewLogger() *slog.Logger {
	var w io.Writer = os.Stderr
	if c.File != "" {
		fileW := &lj.Logger{
			Filename:   c.File,
			MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
			MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   c.Compress,
		}
		w = io.MultiWriter(os.Stderr, fileW)
	}
	opts := &slog.HandlerOptions{Level: c.slogLevel()}
	if c.Color && c.File == "" {
		return slog.New(NewColorTextHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c Config) slogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
