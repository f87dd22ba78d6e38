package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/sanitizer"
	"github.com/dmitrymomot/courier/pkg/validator"
)

// Renderer turns a named template and a sanitized context into a message body.
// *mailer.Renderer satisfies it.
type Renderer interface {
	Render(templateName string, data any) (*mailer.RenderResult, error)
}

// Dispatcher delivers one personalized message per call.
type Dispatcher struct {
	renderer   Renderer
	sender     mailer.Sender
	observer   Observer
	logger     *slog.Logger
	template   string
	subject    string
	sanitize   []sanitizer.Option
	cfg        mailer.SenderConfig
	maxRetries uint64
	retryBase  time.Duration
}

// New creates a Dispatcher. cfg is not validated here; every DispatchOne call
// checks it and reports a configuration failure for that recipient.
func New(renderer Renderer, sender mailer.Sender, cfg mailer.SenderConfig, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		renderer: renderer,
		sender:   sender,
		cfg:      cfg,
		template: DefaultTemplate,
		subject:  DefaultSubject,
		observer: nopObserver{},
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the sender configuration the dispatcher was built with.
func (d *Dispatcher) Config() mailer.SenderConfig {
	return d.cfg
}

// DispatchOne validates, renders and sends one message to recipient.
// It never returns an error value and never panics: every failure is reported
// as an Outcome, and the observer sees exactly one outcome per call.
func (d *Dispatcher) DispatchOne(ctx context.Context, record Record, recipient string) Outcome {
	start := time.Now()
	out := d.dispatch(ctx, record, recipient)
	out.Recipient = recipient
	out.Duration = time.Since(start)

	d.observer.Observe(ctx, out)
	return out
}

func (d *Dispatcher) dispatch(ctx context.Context, record Record, recipient string) Outcome {
	if err := d.cfg.Validate(); err != nil {
		return failure(ReasonConfiguration, err)
	}

	if !validator.Address(recipient) {
		return failure(ReasonInvalidRecipient, fmt.Errorf("%q", recipient))
	}

	data := sanitizer.Context(record, d.sanitize...)

	var body *mailer.RenderResult
	err := protect(func() error {
		var err error
		body, err = d.renderer.Render(d.template, data)
		return err
	})
	if err != nil {
		return failure(ReasonRender, err)
	}

	email, err := mailer.Compose(d.subject, d.cfg.From(), recipient, body)
	if err != nil {
		if errors.Is(err, mailer.ErrInvalidRecipient) || errors.Is(err, mailer.ErrNoRecipient) {
			return failure(ReasonInvalidRecipient, err)
		}
		// an empty render result is a content problem
		return failure(ReasonRender, err)
	}

	d.logger.DebugContext(ctx, "message composed",
		slog.String("recipient", recipient),
		slog.String("template", d.template),
	)

	attempts, err := d.send(ctx, email)
	if err != nil {
		reason := ReasonTransport
		if ctx.Err() != nil {
			reason = ReasonCanceled
		}
		out := failure(reason, err)
		out.Attempts = attempts
		return out
	}

	return Outcome{Reason: ReasonNone, Attempts: attempts}
}

// send performs one transport attempt, or several when retry is enabled.
func (d *Dispatcher) send(ctx context.Context, email *mailer.Email) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	attempts := 0
	attempt := func(ctx context.Context) error {
		attempts++
		return protect(func() error {
			return d.sender.Send(ctx, email, d.cfg)
		})
	}

	if d.maxRetries == 0 {
		err := attempt(ctx)
		return attempts, err
	}

	b := retry.NewExponential(d.retryBase)
	b = retry.WithMaxRetries(d.maxRetries, b)

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := attempt(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			d.logger.WarnContext(ctx, "send attempt failed",
				slog.String("recipient", email.To[0]),
				slog.Int("attempt", attempts),
				slog.String("error", err.Error()),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	return attempts, err
}

func failure(reason Reason, cause error) Outcome {
	return Outcome{Reason: reason, Err: errors.Join(reason.Sentinel(), cause)}
}

// protect turns a panic in a collaborator into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
