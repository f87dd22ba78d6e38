// Package courier sends personalized emails to a list of recipients,
// one at a time, with pacing that keeps SMTP relays and API providers happy.
//
// The root package wires the pieces under pkg/ into an App:
//
//   - pkg/mailer renders markdown templates into HTML and composes messages
//   - pkg/mailer/smtp and pkg/mailer/resend deliver them
//   - pkg/dispatch runs one recipient through validate, sanitize, render, send
//   - pkg/batch walks the recipient list with item and batch delays
//
// # Quick Start
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app, err := courier.New(
//	    courier.WithConfig(cfg),
//	    courier.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := app.Run(records)
//	fmt.Printf("%d sent, %d failed of %d\n", res.Successful, res.Failed, res.Total)
//
// # Outcomes
//
// A single failing recipient never stops a batch. Every record produces a
// dispatch.Outcome whose Reason tells configuration, address, render and
// transport failures apart. Outcomes are written to the logger as an audit
// trail; WithObserver adds more sinks.
//
// # Shutdown
//
// Run listens for SIGINT and SIGTERM. The batch stops between two sends,
// never in the middle of one, and the partial result is returned.
package courier
