package dispatch

import (
	"context"
	"log/slog"
)

// Observer receives every outcome as it is produced.
// Implementations must be safe for use from the dispatching goroutine and should
// return quickly; they sit on the send path.
type Observer interface {
	Observe(ctx context.Context, outcome Outcome)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, outcome Outcome)

// Observe implements Observer.
func (f ObserverFunc) Observe(ctx context.Context, outcome Outcome) {
	f(ctx, outcome)
}

// Observers fans an outcome out to several observers in order. Nil entries are skipped.
func Observers(obs ...Observer) Observer {
	clean := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			clean = append(clean, o)
		}
	}
	return ObserverFunc(func(ctx context.Context, outcome Outcome) {
		for _, o := range clean {
			o.Observe(ctx, outcome)
		}
	})
}

// NewLogObserver returns an observer that writes one audit line per outcome.
// Successes are logged at Info, failures at Error.
func NewLogObserver(log *slog.Logger) Observer {
	return ObserverFunc(func(ctx context.Context, outcome Outcome) {
		if outcome.OK() {
			log.InfoContext(ctx, "email sent", slog.Any("outcome", outcome))
			return
		}
		log.ErrorContext(ctx, "email failed", slog.Any("outcome", outcome))
	})
}

type nopObserver struct{}

func (nopObserver) Observe(context.Context, Outcome) {}
