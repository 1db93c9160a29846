package tlog

import (
	"context"
	"log/slog"
	"twdl/pkg/util"
)

var contextKeys = []util.ContextKey{
	util.RunIDContextKey,
	util.BroadcasterContextKey,
	util.ClipIDContextKey,
}

// contextHandler copies well-known context values onto every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if ctx != nil {
		for _, key := range contextKeys {
			if value, ok := ctx.Value(key).(string); ok && value != "" {
				record.AddAttrs(slog.String(string(key), value))
			}
		}
	}

	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{h.Handler.WithGroup(name)}
}
