package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLevelParsing(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{" Debug ", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"garbage", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := (Config{Level: tc.in}).slogLevel(); got != tc.want {
			t.Errorf("slogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage-http.log")
	lg := Config{File: path}.NewLogger()
	lg.Info("hello", slog.String("k", "v"))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created at %s: %v", path, err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("log file is empty")
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lvl.log")
	lg := Config{Level: "error", File: path}.NewLogger()
	lg.Info("should not appear")
	b, _ := os.ReadFile(path)
	if len(b) != 0 {
		t.Fatalf("info record written despite error level: %q", string(b))
	}
	lg.Error("boom")
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		t.Fatalf("error record missing: %v", err)
	}
}

func TestColorHandlerPrefixesLevel(t *testing.T) {
	// Color applies only to terminal output; with a file configured the plain
	// text handler is used so rotated logs stay ANSI-free.
	dir := t.TempDir()
	path := filepath.Join(dir, "color.log")
	lg := Config{Color: true, File: path}.NewLogger()
	lg.Info("plain in file")
	b, _ := os.ReadFile(path)
	for _, c := range b {
		if c == 0x1b {
			t.Fatalf("ANSI escape leaked into log file")
		}
	}
}
