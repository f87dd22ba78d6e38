package logger

import (
	"context"
	"errors"
	"log/slog"
)

// sink is one destination of the router and the lowest level it accepts.
type sink struct {
	handler slog.Handler
	min     slog.Level
}

// router delivers each record to every sink whose threshold it meets.
// Stdout and the log file take everything at or above the configured level;
// Sentry only takes warnings and errors.
type router struct {
	sinks []sink
}

func newRouter(sinks ...sink) slog.Handler {
	return &router{sinks: sinks}
}

func (r *router) accepts(ctx context.Context, s sink, level slog.Level) bool {
	return level >= s.min && s.handler.Enabled(ctx, level)
}

func (r *router) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range r.sinks {
		if r.accepts(ctx, s, level) {
			return true
		}
	}
	return false
}

// Handle writes to every accepting sink even when an earlier one fails, so a
// Sentry outage never costs the local audit line.
func (r *router) Handle(ctx context.Context, rec slog.Record) error {
	var errs []error
	for _, s := range r.sinks {
		if !r.accepts(ctx, s, rec.Level) {
			continue
		}
		if err := s.handler.Handle(ctx, rec.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *router) WithAttrs(attrs []slog.Attr) slog.Handler {
	return r.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (r *router) WithGroup(name string) slog.Handler {
	return r.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (r *router) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]sink, len(r.sinks))
	for i, s := range r.sinks {
		sinks[i] = sink{handler: fn(s.handler), min: s.min}
	}
	return &router{sinks: sinks}
}
