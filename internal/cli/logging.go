package cli

import (
	"context"
	"io"
	"log/slog"
)

// ParseLogLevel maps a config string to a slog level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch level {
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

// NewLogger writes JSON records at level to file and only warnings and
// errors to the terminal.
func NewLogger(file, terminal io.Writer, level slog.Level) *slog.Logger {
	termLevel := level
	if termLevel < slog.LevelWarn {
		termLevel = slog.LevelWarn
	}
	return slog.New(&multiHandler{
		handlers: []slog.Handler{
			slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
			slog.NewTextHandler(terminal, &slog.HandlerOptions{Level: termLevel}),
		},
	})
}

// multiHandler logs to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
