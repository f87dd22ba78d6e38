package batch

import (
	"fmt"
	"time"
)

// Default pacing: one second between messages, ten seconds between chunks of 50.
const (
	DefaultBatchSize  = 50
	DefaultItemDelay  = time.Second
	DefaultBatchDelay = 10 * time.Second
)

// PacingPolicy controls how fast a batch is delivered.
type PacingPolicy struct {
	ItemDelay  time.Duration // pause after every item, success or failure
	BatchDelay time.Duration // pause between chunks, never after the last
	BatchSize  int           // max items per chunk
}

// DefaultPolicy returns 50 items per chunk, 1s between items and 10s between chunks.
func DefaultPolicy() PacingPolicy {
	return PacingPolicy{
		ItemDelay:  DefaultItemDelay,
		BatchDelay: DefaultBatchDelay,
		BatchSize:  DefaultBatchSize,
	}
}

// Validate checks the policy bounds.
func (p PacingPolicy) Validate() error {
	if p.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidPolicy, p.BatchSize)
	}
	if p.ItemDelay < 0 {
		return fmt.Errorf("%w: item delay must not be negative", ErrInvalidPolicy)
	}
	if p.BatchDelay < 0 {
		return fmt.Errorf("%w: batch delay must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// Chunks returns the chunk sizes for n records.
func (p PacingPolicy) Chunks(n int) []int {
	if n <= 0 || p.BatchSize < 1 {
		return nil
	}
	sizes := make([]int, 0, (n+p.BatchSize-1)/p.BatchSize)
	for n > 0 {
		size := min(n, p.BatchSize)
		sizes = append(sizes, size)
		n -= size
	}
	return sizes
}

// TotalPause is the pacing time a batch of n records spends waiting:
// n item delays plus one batch delay per chunk boundary.
func (p PacingPolicy) TotalPause(n int) time.Duration {
	chunks := len(p.Chunks(n))
	if chunks == 0 {
		return 0
	}
	return time.Duration(n)*p.ItemDelay + time.Duration(chunks-1)*p.BatchDelay
}
