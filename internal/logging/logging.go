// Package logging builds the process slog logger from LOG_LEVEL and a format name.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace sits below debug for per-problem output
const LevelTrace = slog.Level(-8)

// ErrUnknownFormat is returned for log formats other than pretty and json
var ErrUnknownFormat = errors.New("logging: unknown format")

// ParseLevel converts a level name to slog.Level
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (defaulting to INFO)", levelStr)
	}
}

// LevelFromEnv reads LOG_LEVEL, falling back to def when unset or invalid
func LevelFromEnv(def slog.Level) slog.Level {
	v, ok := os.LookupEnv("LOG_LEVEL")
	if !ok || v == "" {
		return def
	}
	level, err := ParseLevel(v)
	if err != nil {
		return def
	}
	return level
}

// New returns a logger writing to out in the given format ("pretty" or "json")
func New(out io.Writer, format string, level slog.Leveler) (*slog.Logger, error) {
	opts := slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "", "pretty", "text":
		return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{SlogOpts: opts})), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, &opts)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// Setup builds the logger for stderr and installs it as the slog default
func Setup(format string, level slog.Leveler) (*slog.Logger, error) {
	logger, err := New(os.Stderr, format, level)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}
