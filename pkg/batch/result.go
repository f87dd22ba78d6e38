package batch

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/courier/pkg/dispatch"
)

// Result aggregates the outcomes of one batch.
//
// Total is fixed when the batch starts. Successful+Failed always equals
// len(Outcomes), and equals Total once the batch ran to completion.
type Result struct {
	StartedAt  time.Time
	FinishedAt time.Time
	ID         string
	Outcomes   []dispatch.Outcome // input order
	Total      int
	Successful int
	Failed     int
	Canceled   bool
}

func newResult(total int) *Result {
	return &Result{
		ID:        uuid.NewString(),
		Total:     total,
		Outcomes:  make([]dispatch.Outcome, 0, total),
		StartedAt: time.Now(),
	}
}

func (r *Result) add(o dispatch.Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.OK() {
		r.Successful++
	} else {
		r.Failed++
	}
}

func (r *Result) finish() {
	r.FinishedAt = time.Now()
}

// Processed is the number of records that produced an outcome.
func (r *Result) Processed() int {
	return r.Successful + r.Failed
}

// Duration is the wall time of the batch.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Failures returns the failed outcomes in input order.
func (r *Result) Failures() []dispatch.Outcome {
	var failed []dispatch.Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// ByReason counts outcomes per reason.
func (r *Result) ByReason() map[dispatch.Reason]int {
	counts := make(map[dispatch.Reason]int)
	for _, o := range r.Outcomes {
		counts[o.Reason]++
	}
	return counts
}

// LogValue implements slog.LogValuer.
func (r *Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", r.ID),
		slog.Int("total", r.Total),
		slog.Int("successful", r.Successful),
		slog.Int("failed", r.Failed),
		slog.Bool("canceled", r.Canceled),
		slog.Duration("duration", r.Duration()),
	)
}
