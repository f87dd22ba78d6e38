package courier

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

// Option configures the application.
type Option func(*App)

// WithContext sets a custom base context for signal handling.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) Option {
	return func(a *App) {
		if ctx != nil {
			a.baseCtx = ctx
		}
	}
}

// WithLogger sets the application logger.
// If nil, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTemplates renders markdown templates from fsys.
func WithTemplates(fsys fs.FS, cfg mailer.RendererConfig) Option {
	return func(a *App) {
		a.templates = fsys
		a.rendererCfg = cfg
	}
}

// WithRenderer replaces the markdown renderer. Takes precedence over WithTemplates.
func WithRenderer(r dispatch.Renderer) Option {
	return func(a *App) {
		a.renderer = r
	}
}

// WithSender sets the transport and its configuration.
// cfg is checked on every send, not here.
func WithSender(s mailer.Sender, cfg mailer.SenderConfig) Option {
	return func(a *App) {
		a.sender = s
		a.senderCfg = cfg
	}
}

// WithPacing sets the batch pacing policy.
// Defaults to batch.DefaultPolicy().
func WithPacing(p batch.PacingPolicy) Option {
	return func(a *App) {
		a.policy = p
	}
}

// WithTemplate sets the template name rendered for every message.
func WithTemplate(name string) Option {
	return func(a *App) {
		a.dispatchOpts = append(a.dispatchOpts, dispatch.WithTemplate(name))
	}
}

// WithSubject sets the subject line.
func WithSubject(subject string) Option {
	return func(a *App) {
		a.dispatchOpts = append(a.dispatchOpts, dispatch.WithSubject(subject))
	}
}

// WithSanitizer sets the options applied to every record before rendering.
func WithSanitizer(opts ...sanitizer.Option) Option {
	return func(a *App) {
		a.dispatchOpts = append(a.dispatchOpts, dispatch.WithSanitizer(opts...))
	}
}

// WithRetry enables bounded retry of transport failures.
func WithRetry(maxRetries uint64, baseDelay time.Duration) Option {
	return func(a *App) {
		if maxRetries > 0 {
			a.dispatchOpts = append(a.dispatchOpts, dispatch.WithRetry(maxRetries, baseDelay))
		}
	}
}

// WithRateLimiter puts a token bucket in front of every batch send.
func WithRateLimiter(l *batch.RateLimiter) Option {
	return func(a *App) {
		if l != nil {
			a.batchOpts = append(a.batchOpts, batch.WithRateLimiter(l))
		}
	}
}

// WithPacer replaces the timer-based pacer.
func WithPacer(p batch.Pacer) Option {
	return func(a *App) {
		a.batchOpts = append(a.batchOpts, batch.WithPacer(p))
	}
}

// WithRecipientField sets the record key holding the recipient address.
// Defaults to "email".
func WithRecipientField(field string) Option {
	return func(a *App) {
		if field != "" {
			a.recipientField = field
		}
	}
}

// WithObserver adds an outcome observer next to the audit log.
func WithObserver(o dispatch.Observer) Option {
	return func(a *App) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithFailFast rejects a whole batch up front when the sender configuration
// is incomplete, instead of reporting it per recipient.
func WithFailFast() Option {
	return func(a *App) {
		a.failFast = true
	}
}

// WithShutdownTimeout sets the time budget for shutdown hooks.
// Defaults to 10 seconds.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithShutdownHook registers a function called after Run finishes.
// Hooks run in registration order.
func WithShutdownHook(fn func(ctx context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.shutdownHooks = append(a.shutdownHooks, fn)
		}
	}
}
