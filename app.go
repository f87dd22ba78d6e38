package courier

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

var (
	// ErrNoSender indicates New was called without a transport.
	ErrNoSender = errors.New("courier: no sender configured")

	// ErrNoTemplates indicates New was called without a renderer or template filesystem.
	ErrNoTemplates = errors.New("courier: no templates configured")
)

// App wires a renderer, a sender, a dispatcher and a batch coordinator.
// App is immutable after creation; all configuration is done via New().
type App struct {
	// Base context for signal handling (defaults to context.Background())
	baseCtx context.Context
	logger  *slog.Logger

	// Rendering
	templates   fs.FS
	rendererCfg mailer.RendererConfig
	renderer    dispatch.Renderer

	// Transport
	sender    mailer.Sender
	senderCfg mailer.SenderConfig

	// Pacing
	policy         batch.PacingPolicy
	recipientField string
	failFast       bool

	dispatchOpts []dispatch.Option
	batchOpts    []batch.Option
	observers    []dispatch.Observer

	// Lifecycle
	shutdownTimeout time.Duration
	shutdownHooks   []func(ctx context.Context) error

	// Built by New
	dispatcher  *dispatch.Dispatcher
	coordinator *batch.Coordinator
	observer    dispatch.Observer
}

// New creates an application with the given options.
//
// Example:
//
//	app, err := courier.New(
//	    courier.WithLogger(log),
//	    courier.WithTemplates(os.DirFS("templates"), mailer.RendererConfig{}),
//	    courier.WithSender(smtp.New(), senderCfg),
//	    courier.WithPacing(batch.DefaultPolicy()),
//	)
func New(opts ...Option) (*App, error) {
	a := &App{
		policy:          batch.DefaultPolicy(),
		recipientField:  batch.DefaultRecipientField,
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = logger.NewNope()
	}
	if a.sender == nil {
		return nil, ErrNoSender
	}
	if a.renderer == nil {
		if a.templates == nil {
			return nil, ErrNoTemplates
		}
		a.renderer = mailer.NewRendererWithConfig(a.templates, a.rendererCfg)
	}

	a.observer = dispatch.Observers(append([]dispatch.Observer{dispatch.NewLogObserver(a.logger)}, a.observers...)...)

	a.dispatcher = dispatch.New(a.renderer, a.sender, a.senderCfg,
		append([]dispatch.Option{dispatch.WithLogger(a.logger)}, a.dispatchOpts...)...,
	)

	batchOpts := []batch.Option{
		batch.WithLogger(a.logger),
		batch.WithObserver(a.observer),
		batch.WithRecipientField(a.recipientField),
	}
	if a.failFast {
		cfg := a.senderCfg
		batchOpts = append(batchOpts, batch.WithPreflight(func(context.Context) error {
			return cfg.Validate()
		}))
	}

	coord, err := batch.New(a.dispatcher, a.policy, append(batchOpts, a.batchOpts...)...)
	if err != nil {
		return nil, err
	}
	a.coordinator = coord

	return a, nil
}

// Dispatcher returns the single-message dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	return a.dispatcher
}

// Coordinator returns the batch coordinator.
func (a *App) Coordinator() *batch.Coordinator {
	return a.coordinator
}

// Send delivers one record to the address in its recipient field.
func (a *App) Send(ctx context.Context, record dispatch.Record) dispatch.Outcome {
	recipient, _ := record[a.recipientField].(string)
	return a.SendTo(ctx, record, recipient)
}

// SendTo delivers one record to recipient, ignoring the record's own address.
func (a *App) SendTo(ctx context.Context, record dispatch.Record, recipient string) dispatch.Outcome {
	out := a.dispatcher.DispatchOne(logger.WithRecipient(ctx, recipient), record, recipient)
	a.observer.Observe(ctx, out)
	return out
}

// SendBatch delivers records with the configured pacing.
func (a *App) SendBatch(ctx context.Context, records []dispatch.Record) (*batch.Result, error) {
	return a.coordinator.DispatchBatch(ctx, records)
}
