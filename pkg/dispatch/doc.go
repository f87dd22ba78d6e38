// Package dispatch delivers one personalized message per recipient and reports
// the result as a typed Outcome.
//
// A Dispatcher ties a Renderer, a mailer.Sender and a mailer.SenderConfig
// together. Each DispatchOne call runs the same fixed sequence:
//
//  1. validate the SenderConfig (ReasonConfiguration)
//  2. validate the recipient address (ReasonInvalidRecipient)
//  3. sanitize the record with sanitizer.Context
//  4. render the template (ReasonRender)
//  5. compose the email with mailer.Compose
//  6. send it (ReasonTransport, or ReasonCanceled if the context is done)
//
// Nothing escapes as an error value or a panic. Callers branch on
// Outcome.Reason or use errors.Is against the package sentinels:
//
//	out := d.DispatchOne(ctx, record, "carlo@wm.edu")
//	if errors.Is(out.Err, dispatch.ErrTransportFailed) {
//		// the server refused or the connection dropped
//	}
//
// # Observing outcomes
//
// Every call notifies the configured Observer exactly once. NewLogObserver
// writes an audit line per outcome; Observers fans out to several sinks.
//
// # Retries
//
// One call is one transport attempt. WithRetry opts into bounded exponential
// retry of transport failures; configuration, address and render failures are
// never retried.
package dispatch
