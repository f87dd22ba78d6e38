package dispatch

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

const (
	// DefaultTemplate is the template rendered when WithTemplate is not given.
	DefaultTemplate = "email_template.md"

	// DefaultSubject is the subject line used when WithSubject is not given.
	DefaultSubject = "Your Fall 2024 Union Central Wrapped!"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTemplate sets the template name passed to the renderer.
func WithTemplate(name string) Option {
	return func(d *Dispatcher) {
		if name != "" {
			d.template = name
		}
	}
}

// WithSubject sets the fixed subject line.
func WithSubject(subject string) Option {
	return func(d *Dispatcher) {
		if subject != "" {
			d.subject = subject
		}
	}
}

// WithSanitizer sets the options applied when sanitizing each record.
func WithSanitizer(opts ...sanitizer.Option) Option {
	return func(d *Dispatcher) {
		d.sanitize = append(d.sanitize, opts...)
	}
}

// WithObserver sets the outcome observer.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithLogger sets the logger used for stage-level debug output.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// WithRetry enables bounded exponential retry of transport failures.
// maxRetries is the number of extra attempts after the first; baseDelay is
// the first backoff step. Retries are off unless this option is given.
func WithRetry(maxRetries uint64, baseDelay time.Duration) Option {
	return func(d *Dispatcher) {
		if baseDelay <= 0 {
			baseDelay = time.Second
		}
		d.maxRetries = maxRetries
		d.retryBase = baseDelay
	}
}
