package courier

import (
	"fmt"
	"os"

	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/config"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/smtp"
	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

// NewSender returns the transport registered under name.
func NewSender(name string) (mailer.Sender, error) {
	switch name {
	case config.TransportSMTP, "":
		return smtp.New(), nil
	case config.TransportResend:
		return resend.New(), nil
	default:
		return nil, fmt.Errorf("%w: unknown transport %q", ErrNoSender, name)
	}
}

// WithConfig applies everything in cfg: transport, templates from
// cfg.Template.Dir on disk, pacing, sanitizer limits, retry, rate limiting
// and fail-fast. Options given after it override individual settings.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		if cfg == nil {
			return
		}

		if sender, err := NewSender(cfg.Transport); err == nil {
			a.sender = sender
		}
		a.senderCfg = cfg.Sender

		a.templates = os.DirFS(cfg.Template.Dir)
		a.rendererCfg = mailer.RendererConfig{
			Layout: cfg.Template.Layout,
			// sanitized markup is only useful if the renderer keeps it
			AllowHTML: cfg.HTML == sanitizer.HTMLSafe,
		}

		a.policy = cfg.Pacing
		a.recipientField = cfg.RecipientField
		a.failFast = cfg.FailFast

		sanitize := []sanitizer.Option{
			sanitizer.WithMaxLength(cfg.MaxValueLength),
			sanitizer.WithHTMLMode(cfg.HTML),
		}

		for _, opt := range []Option{
			WithTemplate(cfg.Template.Name),
			WithSubject(cfg.Template.Subject),
			WithSanitizer(sanitize...),
			WithRetry(cfg.Retry.Max, cfg.Retry.BaseDelay),
		} {
			opt(a)
		}

		if cfg.RateLimit.Enabled() {
			WithRateLimiter(batch.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Backoff))(a)
		}
	}
}
