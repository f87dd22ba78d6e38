// Package batch delivers a list of recipient records through a single
// dispatcher, one record at a time, with fixed pacing between sends.
//
// Records are split into chunks of PacingPolicy.BatchSize. The coordinator
// pauses ItemDelay after every record and BatchDelay between chunks, so five
// records with a batch size of two spend 5*ItemDelay + 2*BatchDelay waiting
// regardless of which sends succeed.
//
//	coord, err := batch.New(dispatcher, batch.DefaultPolicy(),
//		batch.WithObserver(dispatch.NewLogObserver(log)),
//	)
//	if err != nil {
//		return err
//	}
//	res, err := coord.DispatchBatch(ctx, records)
//	// res.Total == len(records); res.Successful+res.Failed == res.Total
//
// A record without a string value under the recipient field ("email" by
// default) is counted as an invalid-recipient failure and never reaches the
// dispatcher.
//
// # Cancellation
//
// The context is checked between records and during pauses. A send that has
// started always finishes. On cancellation DispatchBatch returns the partial
// result with Canceled set and the context error.
//
// # Rate limiting
//
// WithRateLimiter adds a token bucket (golang.org/x/time/rate) in front of
// each send. After a transport failure the limiter holds the next send back
// for a backoff that doubles with each consecutive failure and resets on the
// next success.
//
// # Preflight
//
// Configuration problems are reported per record by default. WithPreflight
// runs a check once up front; if it fails every record is marked as a
// configuration failure without sending or pausing.
package batch
