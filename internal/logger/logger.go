package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const instrumentationName = "github.com/rocketscienceinc/tictactoe-minimax"

// MultiHandler dispatches every record to all of its handlers.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// Enabled reports whether any underlying handler takes the level.
func (that *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range that.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (that *MultiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, handler := range that.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}

		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (that *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(that.handlers))
	for i, handler := range that.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}

	return NewMultiHandler(handlers...)
}

func (that *MultiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(that.handlers))
	for i, handler := range that.handlers {
		handlers[i] = handler.WithGroup(name)
	}

	return NewMultiHandler(handlers...)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New returns a JSON logger writing to out. With withOtel the records are
// also handed to the global OpenTelemetry logger provider.
func New(out io.Writer, level string, withOtel bool) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: ParseLevel(level)})

	if withOtel {
		handler = NewMultiHandler(handler, otelslog.NewHandler(instrumentationName))
	}

	return slog.New(handler)
}
