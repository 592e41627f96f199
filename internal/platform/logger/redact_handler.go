package logger

import (
	"context"
	"log/slog"

	"github.com/hearthapp/hearth-api/internal/redact"
)

// RedactingHandler is a slog.Handler wrapper that scrubs sensitive values
// (credentials, connection strings, tokens, email addresses) from the
// message and every string attribute before the record reaches the
// underlying handler. It exists so that call sites can log errors and
// request details without each one re-deciding what is safe to write.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps the provided handler, usually a JSON handler.
func NewRedactingHandler(h slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: h}
}

// Enabled implements the slog.Handler interface.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface. Attrs attached here are
// redacted immediately, before the underlying handler caches them.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup implements the slog.Handler interface.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface. It rebuilds the record with
// scrubbed message and attributes and forwards it unchanged otherwise.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	scrubbed := slog.NewRecord(record.Time, record.Level, redact.String(record.Message), record.PC)

	record.Attrs(func(a slog.Attr) bool {
		scrubbed.AddAttrs(redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, scrubbed)
}

// redactAttr scrubs string values, walking into groups. Non-string values
// pass through untouched.
func redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, redact.String(a.Value.String()))
	case slog.KindGroup:
		members := a.Value.Group()
		scrubbed := make([]any, 0, len(members))
		for _, m := range members {
			scrubbed = append(scrubbed, redactAttr(m))
		}
		return slog.Group(a.Key, scrubbed...)
	default:
		return a
	}
}
