package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

// ErrInvalidLevel indicates an unknown log level name.
var ErrInvalidLevel = errors.New("logger: invalid level")

// Config configures New.
type Config struct {
	Level  string // debug, info, warn, error; default info
	File   string // optional append-only JSON log file
	Sentry SentryConfig
}

// ParseLevel maps a level name to slog.Level. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
}

// New creates a JSON logger writing to stdout, and also to cfg.File when set.
// With a Sentry DSN, warnings and errors are forwarded to Sentry as well.
// Records logged under WithBatchID or WithRecipient carry batch_id and
// recipient; extractors add further context attributes.
// The returned cleanup closes the file and flushes Sentry; call it on exit.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func(), error) {
	return NewWithWriter(os.Stdout, cfg, extractors...)
}

// NewWithWriter is New with a custom primary writer.
func NewWithWriter(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	primary := slog.NewJSONHandler(w, opts)
	sinks := []sink{{handler: primary, min: level}}
	var closers []func()

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("logger: open %s: %w", cfg.File, err)
		}
		sinks = append(sinks, sink{handler: slog.NewJSONHandler(f, opts), min: level})
		closers = append(closers, func() { _ = f.Close() })
	}

	if s, ok := sentrySink(cfg.Sentry, primary); ok {
		s.min = max(s.min, level)
		sinks = append(sinks, s)
		closers = append(closers, func() { sentry.Flush(2 * time.Second) })
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return slog.New(NewContextHandler(newRouter(sinks...), extractors...)), cleanup, nil
}

// NewNope returns a logger that discards everything. Packages fall back to it
// when no logger is injected.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
