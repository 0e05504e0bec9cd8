// Package logging sets up the file logger. Stdout belongs to the TUI,
// so log lines go to brt.log under the data directory.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/brtdev/brt/internal/config"
)

// New opens the log file and returns a logger plus a close func. When
// the file cannot be opened the logger discards everything rather than
// corrupting the terminal.
func New(cfg config.Config) (*slog.Logger, func() error) {
	dir := cfg.DataDir
	if dir == "" {
		if cache, err := os.UserCacheDir(); err == nil {
			dir = filepath.Join(cache, "brt")
		}
	}
	if dir == "" {
		return discard(), func() error { return nil }
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return discard(), func() error { return nil }
	}
	f, err := os.OpenFile(filepath.Join(dir, "brt.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard(), func() error { return nil }
	}
	h := tint.NewHandler(f, &tint.Options{
		Level:   Level(cfg.LogLevel),
		NoColor: true,
	})
	return slog.New(h), f.Close
}

// Level maps the config string to a slog level, defaulting to info.
func Level(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
