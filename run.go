package courier

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/dispatch"
)

// Run delivers records and blocks until the batch finishes.
// SIGINT and SIGTERM stop the batch between sends; the partial result is
// returned with the context error.
//
// Shutdown hooks run after the batch, whatever its outcome.
func (a *App) Run(records []dispatch.Record) (*batch.Result, error) {
	baseCtx := a.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := a.coordinator.Policy()
	a.logger.InfoContext(ctx, "sending",
		slog.Int("records", len(records)),
		slog.Duration("min_duration", p.TotalPause(len(records))),
	)

	res, runErr := a.SendBatch(ctx, records)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if err := a.shutdown(); err != nil {
		errs = append(errs, err)
	}

	return res, errors.Join(errs...)
}

func (a *App) shutdown() error {
	if len(a.shutdownHooks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, hook := range a.shutdownHooks {
		if err := hook(ctx); err != nil {
			errs = append(errs, err)
			a.logger.Error("shutdown hook failed", slog.Any("error", err))
		}
	}
	return errors.Join(errs...)
}
