package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// FormatJSON writes one JSON object per record.
	FormatJSON = "json"

	// FormatText writes logfmt-style key=value records.
	FormatText = "text"
)

// Config describes a structured logger.
type Config struct {
	// Module is attached to every record as "module".
	Module string

	// Version is attached to every record as "version".
	Version string

	// Level is one of debug, info, warn or error. Empty falls back to LOG_LEVEL.
	Level string

	// Format is FormatJSON (default) or FormatText.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a structured logger from cfg. Source locations are added at
// debug level only.
func New(cfg Config) *slog.Logger {
	level := cfg.Level
	if level == "" {
		level = os.Getenv(EnvVarLogLevel)
	}
	lev := ParseLogLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, FormatText) {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	l := slog.New(h)
	if cfg.Module != "" {
		l = l.With("module", cfg.Module)
	}
	if cfg.Version != "" {
		l = l.With("version", cfg.Version)
	}
	return l
}

// SetDefault builds a logger from cfg, installs it as the slog default and
// returns it.
func SetDefault(cfg Config) *slog.Logger {
	l := New(cfg)
	slog.SetDefault(l)
	return l
}

// NewLogLogger adapts l for APIs that still take a *log.Logger, such as
// http.Server.ErrorLog.
func NewLogLogger(l *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(l.Handler(), level)
}

// ParseLogLevel converts a string representation of a log level into a slog.Level.
// Unrecognized values yield slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
