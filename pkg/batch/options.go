package batch

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/courier/pkg/dispatch"
)

// DefaultRecipientField is the record key holding the recipient address.
const DefaultRecipientField = "email"

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPacer replaces the timer-based pacer.
func WithPacer(p Pacer) Option {
	return func(c *Coordinator) {
		if p != nil {
			c.pacer = p
		}
	}
}

// WithRateLimiter puts a token bucket with adaptive backoff in front of every send.
func WithRateLimiter(l *RateLimiter) Option {
	return func(c *Coordinator) {
		c.limiter = l
	}
}

// WithRecipientField sets the record key read as the recipient address.
func WithRecipientField(field string) Option {
	return func(c *Coordinator) {
		if field != "" {
			c.field = field
		}
	}
}

// WithObserver receives every outcome of the batch, with Index set,
// including those produced without calling the dispatcher.
func WithObserver(o dispatch.Observer) Option {
	return func(c *Coordinator) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the logger for batch lifecycle events.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithPreflight runs check once before the first record. When it fails every
// record is reported as a configuration failure and nothing is sent.
func WithPreflight(check func(ctx context.Context) error) Option {
	return func(c *Coordinator) {
		c.preflight = check
	}
}
