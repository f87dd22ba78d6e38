// Command courier sends the templated campaign email to every record in a
// YAML or JSON file, or a single test message to TEST_EMAIL.
//
//	courier -records recipients.yaml
//	courier -test
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dmitrymomot/courier"
	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/config"
	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/records"
)

//go:embed sample.yaml
var sampleRecord []byte

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("courier", flag.ContinueOnError)
	configFile := fs.String("config", "", "optional YAML/JSON/TOML config file")
	envFile := fs.String("env", ".env", "env file to load before reading the environment")
	recordsFile := fs.String("records", "", "YAML or JSON file with recipient records")
	testSend := fs.Bool("test", false, "send one message to TEST_EMAIL and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	log, cleanup, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cleanup()

	app, err := courier.New(
		courier.WithConfig(cfg),
		courier.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to initialize", slog.String("error", err.Error()))
		return 1
	}

	var recs []dispatch.Record
	switch {
	case *recordsFile != "":
		recs, err = records.Load(*recordsFile)
	case *testSend:
		recs, err = records.Parse(sampleRecord)
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		log.Error("failed to load records", slog.String("error", err.Error()))
		return 1
	}

	if *testSend {
		return sendTest(app, cfg.TestEmail, recs[0], stdout, log)
	}

	res, err := app.Run(recs)
	printSummary(stdout, res)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("batch ended with error", slog.String("error", err.Error()))
		return 1
	}
	if err != nil || res.Failed > 0 {
		return 1
	}
	return 0
}

func sendTest(app *courier.App, to string, record dispatch.Record, stdout io.Writer, log *slog.Logger) int {
	if to == "" {
		log.Error("TEST_EMAIL is not set")
		return 1
	}

	out := app.SendTo(context.Background(), record, to)
	if !out.OK() {
		fmt.Fprintf(stdout, "Test email failed: %s: %v\n", out.Reason, out.Err)
		return 1
	}
	fmt.Fprintln(stdout, "Test email sent successfully")
	return 0
}

func printSummary(w io.Writer, res *batch.Result) {
	if res == nil {
		return
	}
	fmt.Fprintf(w, "batch %s: %d total, %d successful, %d failed", res.ID, res.Total, res.Successful, res.Failed)
	if res.Canceled {
		fmt.Fprintf(w, " (canceled after %d)", res.Processed())
	}
	fmt.Fprintln(w)

	for _, o := range res.Failures() {
		fmt.Fprintf(w, "  #%d %s: %s: %v\n", o.Index, o.Recipient, o.Reason, o.Err)
	}
}
