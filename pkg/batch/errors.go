package batch

import "errors"

var (
	// ErrInvalidPolicy indicates a PacingPolicy with a non-positive batch size
	// or a negative delay.
	ErrInvalidPolicy = errors.New("batch: invalid pacing policy")

	// ErrNilDispatcher indicates New was called without a dispatcher.
	ErrNilDispatcher = errors.New("batch: dispatcher is nil")

	// ErrPreflightFailed indicates the preflight check rejected the batch.
	ErrPreflightFailed = errors.New("batch: preflight check failed")
)
