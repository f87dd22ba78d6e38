// Package logger builds the structured logger used for delivery auditing.
//
// Every line is JSON written by log/slog. New routes every record to stdout
// and an optional append-only log file, and warnings and errors to Sentry
// when a DSN is set. A context handler in front of the router copies the
// batch ID and recipient from the context into each record:
//
//	log, cleanup, err := logger.New(logger.Config{
//		Level: "info",
//		File:  "email_sending.log",
//	})
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
//	ctx = logger.WithBatchID(ctx, res.ID)
//	log.InfoContext(ctx, "batch started")
//	// {"level":"INFO","msg":"batch started","batch_id":"..."}
//
// # Context attributes
//
// WithBatchID and WithRecipient store values that appear as batch_id and
// recipient on every record logged with that context. A record that sets
// its own recipient attribute keeps it. Extra ContextExtractor funcs passed
// to New add further attributes.
//
// # Sentry
//
// When SentryConfig.DSN is set, errors become Sentry issues and warnings are
// kept as Sentry logs. An empty DSN, or a failed SDK init, leaves stdout and
// file logging untouched.
//
// NewNope returns a logger that discards everything; packages use it when no
// logger is injected.
package logger
