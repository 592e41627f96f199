package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/hearthapp/hearth-api/internal/config"
)

// Setup initializes the application's logging system from the server
// configuration: a structured JSON logger on stdout at the configured
// level, wrapped so that sensitive values are redacted before they are
// written. The logger is installed as the process default and returned.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	level := parseLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := NewRedactingHandler(slog.NewJSONHandler(os.Stdout, opts))
	log := slog.New(handler)

	slog.SetDefault(log)

	return log, nil
}

// parseLevel maps the configured log level text onto a slog.Level,
// case-insensitively. Unknown text falls back to info with a warning on
// stderr, since the real logger does not exist yet at that point.
func parseLevel(text string) slog.Level {
	switch strings.ToLower(text) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using default level",
			"configured_level", text,
			"default_level", "info")
		return slog.LevelInfo
	}
}
