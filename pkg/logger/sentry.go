package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel is the lowest level forwarded to Sentry. Anything below warn
	// is raised to warn.
	MinLevel slog.Level
}

func (c SentryConfig) minLevel() slog.Level {
	return max(c.MinLevel, slog.LevelWarn)
}

// sentrySink initializes the Sentry SDK and returns a router sink for it.
// It reports false when DSN is empty or initialization fails; the failure is
// written to fallback so delivery logs keep flowing.
func sentrySink(cfg SentryConfig, fallback slog.Handler) (sink, bool) {
	if cfg.DSN == "" {
		return sink{}, false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(fallback).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return sink{}, false
	}

	// Errors become issues; everything the router lets through is kept as a log.
	h := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return sink{handler: h, min: cfg.minLevel()}, true
}
