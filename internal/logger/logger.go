// Package logger configures the structured application logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// report ok=false.
func ParseLevel(name string) (level slog.Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Setup creates a JSON logger writing to stdout at the given level and
// installs it as the slog default.
func Setup(levelName string) *slog.Logger {
	return SetupWriter(os.Stdout, levelName)
}

// SetupWriter is Setup with an explicit destination
func SetupWriter(w io.Writer, levelName string) *slog.Logger {
	return install(levelName, func(opts *slog.HandlerOptions) slog.Handler {
		return slog.NewJSONHandler(w, opts)
	})
}

// SetupText installs a human-readable text logger writing to w, used by
// the one-shot CLI commands
func SetupText(w io.Writer, levelName string) *slog.Logger {
	return install(levelName, func(opts *slog.HandlerOptions) slog.Handler {
		return slog.NewTextHandler(w, opts)
	})
}

func install(levelName string, newHandler func(*slog.HandlerOptions) slog.Handler) *slog.Logger {
	level, ok := ParseLevel(levelName)

	logger := slog.New(newHandler(&slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", levelName,
			"default_level", "info")
	}
	return logger
}
