package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a JSON slog logger on stdout configured at the provided level.
// If the level string is invalid it defaults to info. Every record carries
// the service name.
func New(service, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, level)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, service, level string) *slog.Logger {
	lvl := new(slog.LevelVar)
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl.Set(slog.LevelInfo)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	logger := slog.New(handler)
	if service != "" {
		logger = logger.With(slog.String("service", service))
	}
	return logger
}

// Discard returns a logger that drops all output. Useful for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
