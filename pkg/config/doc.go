// Package config loads courier settings from .env files, an optional config
// file and the process environment.
//
// Precedence, highest first: process environment, .env file, config file,
// built-in defaults. Variable names match the campaign .env files already in use
// (SMTP_SERVER, SMTP_PORT, SENDER_EMAIL, EMAIL_PASSWORD, BATCH_SIZE) so an
// existing .env keeps working:
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//	coord, err := batch.New(dispatcher, cfg.Pacing)
//
// Durations accept Go syntax ("1s", "250ms") or a bare number of seconds.
//
// Load never rejects missing sender credentials. The dispatcher reports them
// per message, and FAIL_FAST turns on a batch-level preflight check.
package config
