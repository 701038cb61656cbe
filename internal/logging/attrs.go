package logging

import (
	"io"
	"log/slog"
)

// Attribute keys shared across components so log output stays greppable.
const (
	FieldComponent  = "component"
	FieldCardID     = "card"
	FieldSubscriber = "subscriber"
)

// Error wraps an error as a slog attribute under the conventional key.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// String mirrors slog.String; kept so call sites import one package.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// WithComponent tags a logger with the component attribute.
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	return logger.With(slog.String(FieldComponent, name))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
