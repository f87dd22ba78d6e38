package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/logger"
)

// Dispatcher delivers one message. *dispatch.Dispatcher satisfies it.
type Dispatcher interface {
	DispatchOne(ctx context.Context, record dispatch.Record, recipient string) dispatch.Outcome
}

// Coordinator walks a list of records sequentially, paced by a PacingPolicy.
type Coordinator struct {
	dispatcher Dispatcher
	pacer      Pacer
	limiter    *RateLimiter
	observer   dispatch.Observer
	logger     *slog.Logger
	preflight  func(ctx context.Context) error
	field      string
	policy     PacingPolicy
}

// New creates a Coordinator.
func New(d Dispatcher, policy PacingPolicy, opts ...Option) (*Coordinator, error) {
	if d == nil {
		return nil, ErrNilDispatcher
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	c := &Coordinator{
		dispatcher: d,
		policy:     policy,
		pacer:      TimerPacer{},
		field:      DefaultRecipientField,
		observer:   dispatch.ObserverFunc(func(context.Context, dispatch.Outcome) {}),
		logger:     logger.NewNope(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Policy returns the pacing policy.
func (c *Coordinator) Policy() PacingPolicy {
	return c.policy
}

// DispatchBatch delivers records in order, one at a time.
//
// It pauses ItemDelay after every record and BatchDelay between chunks of
// BatchSize. A failing record never stops the batch. The context is checked
// between records and during pauses, never in the middle of a send; when it is
// done the partial result is returned with Canceled set, together with ctx.Err().
// A cancel that only interrupts the pause after the last record is not a
// cancellation: the batch finishes normally.
// A failed preflight check returns a result where every record failed, along
// with an error wrapping ErrPreflightFailed.
func (c *Coordinator) DispatchBatch(ctx context.Context, records []dispatch.Record) (*Result, error) {
	res := newResult(len(records))
	ctx = logger.WithBatchID(ctx, res.ID)

	c.logger.InfoContext(ctx, "batch started",
		slog.Int("total", res.Total),
		slog.Int("batch_size", c.policy.BatchSize),
		slog.Int("chunks", len(c.policy.Chunks(res.Total))),
	)

	if c.preflight != nil {
		if err := c.preflight(ctx); err != nil {
			c.failAll(ctx, res, records, err)
			res.finish()
			c.logger.ErrorContext(ctx, "batch rejected by preflight check",
				slog.Any("result", res),
				slog.String("error", err.Error()),
			)
			return res, errors.Join(ErrPreflightFailed, err)
		}
	}

	index := 0
	for chunk, size := range c.policy.Chunks(len(records)) {
		if chunk > 0 {
			c.logger.DebugContext(ctx, "pausing between chunks",
				slog.Int("chunk", chunk),
				slog.Duration("delay", c.policy.BatchDelay),
			)
			if err := c.pacer.Pause(ctx, c.policy.BatchDelay); err != nil {
				return c.stop(ctx, res, err)
			}
		}

		for range size {
			if err := ctx.Err(); err != nil {
				return c.stop(ctx, res, err)
			}

			out, err := c.dispatchOne(ctx, index, records[index])
			if err != nil {
				return c.stop(ctx, res, err)
			}
			res.add(out)
			c.observer.Observe(ctx, out)
			index++

			if err := c.pacer.Pause(ctx, c.policy.ItemDelay); err != nil {
				if index == len(records) {
					// every record was handled; only the trailing pause was cut short
					break
				}
				return c.stop(ctx, res, err)
			}
		}
	}

	res.finish()
	c.logger.InfoContext(ctx, "batch finished", slog.Any("result", res))
	return res, nil
}

// dispatchOne returns an error only when the batch must stop before the send.
func (c *Coordinator) dispatchOne(ctx context.Context, index int, record dispatch.Record) (dispatch.Outcome, error) {
	recipient, ok := record[c.field].(string)
	if !ok || recipient == "" {
		return dispatch.Outcome{
			Index:  index,
			Reason: dispatch.ReasonInvalidRecipient,
			Err:    errors.Join(dispatch.ErrInvalidRecipient, fmt.Errorf("record has no %q value", c.field)),
		}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return dispatch.Outcome{}, err
		}
	}

	out := c.dispatcher.DispatchOne(logger.WithRecipient(ctx, recipient), record, recipient)
	out.Index = index
	out.Recipient = recipient

	if c.limiter != nil {
		switch out.Reason {
		case dispatch.ReasonNone:
			c.limiter.Success()
		case dispatch.ReasonTransport:
			c.limiter.Failure()
		}
	}
	return out, nil
}

func (c *Coordinator) failAll(ctx context.Context, res *Result, records []dispatch.Record, cause error) {
	for i, record := range records {
		recipient, _ := record[c.field].(string)
		out := dispatch.Outcome{
			Index:     i,
			Recipient: recipient,
			Reason:    dispatch.ReasonConfiguration,
			Err:       errors.Join(dispatch.ErrMissingConfiguration, cause),
		}
		res.add(out)
		c.observer.Observe(ctx, out)
	}
}

func (c *Coordinator) stop(ctx context.Context, res *Result, err error) (*Result, error) {
	res.Canceled = true
	res.finish()
	c.logger.WarnContext(ctx, "batch canceled",
		slog.Any("result", res),
		slog.Int("remaining", res.Total-res.Processed()),
	)
	return res, err
}
