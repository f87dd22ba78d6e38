package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor returns one attribute taken from ctx.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler stamps the batch ID and recipient stored in the context onto
// every record, then appends whatever the extra extractors return.
type contextHandler struct {
	next  slog.Handler
	extra []ContextExtractor

	// set once a static "recipient" attribute is bound via WithAttrs
	boundRecipient bool
	grouped        bool
}

// NewContextHandler wraps next so records logged under WithBatchID or
// WithRecipient carry batch_id and recipient. A record that already has its
// own top-level recipient keeps it. Nil extractors are dropped.
func NewContextHandler(next slog.Handler, extra ...ContextExtractor) slog.Handler {
	h := &contextHandler{next: next}
	for _, ex := range extra {
		if ex != nil {
			h.extra = append(h.extra, ex)
		}
	}
	return h
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	if id := BatchID(ctx); id != "" {
		rec.AddAttrs(slog.String(BatchIDKey, id))
	}
	if addr := Recipient(ctx); addr != "" && !h.hasRecipient(rec) {
		rec.AddAttrs(slog.String(RecipientKey, addr))
	}
	for _, ex := range h.extra {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) hasRecipient(rec slog.Record) bool {
	if h.grouped {
		return false
	}
	if h.boundRecipient {
		return true
	}
	found := false
	rec.Attrs(func(a slog.Attr) bool {
		found = a.Key == RecipientKey
		return !found
	})
	return found
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.next = h.next.WithAttrs(attrs)
	if !h.grouped {
		for _, a := range attrs {
			if a.Key == RecipientKey {
				c.boundRecipient = true
			}
		}
	}
	return &c
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.next = h.next.WithGroup(name)
	c.grouped = true
	return &c
}
