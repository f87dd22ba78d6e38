package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dmitrymomot/courier/pkg/batch"
	"github.com/dmitrymomot/courier/pkg/dispatch"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/sanitizer"
)

// Transport names accepted in MAIL_TRANSPORT.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
)

// Keys, as environment variable names. Config files use the same names in
// lower case.
const (
	KeySMTPServer        = "SMTP_SERVER"
	KeySMTPPort          = "SMTP_PORT"
	KeySenderEmail       = "SENDER_EMAIL"
	KeyEmailPassword     = "EMAIL_PASSWORD"
	KeySenderName        = "SENDER_NAME"
	KeyTransport         = "MAIL_TRANSPORT"
	KeyTemplatesDir      = "TEMPLATES_DIR"
	KeyTemplateName      = "TEMPLATE_NAME"
	KeyLayoutName        = "LAYOUT_NAME"
	KeySubject           = "MAIL_SUBJECT"
	KeyBatchSize         = "BATCH_SIZE"
	KeyItemDelay         = "PACING_ITEM_DELAY"
	KeyBatchDelay        = "PACING_BATCH_DELAY"
	KeyRateLimitRPS      = "RATE_LIMIT_RPS"
	KeyRateLimitBurst    = "RATE_LIMIT_BURST"
	KeyTransportBackoff  = "TRANSPORT_BACKOFF"
	KeySendRetries       = "SEND_RETRIES"
	KeyRetryBaseDelay    = "RETRY_BASE_DELAY"
	KeyRecipientField    = "RECIPIENT_FIELD"
	KeyMaxValueLength    = "MAX_VALUE_LENGTH"
	KeyStripHTML         = "STRIP_HTML"
	KeyFailFast          = "FAIL_FAST"
	KeyTestEmail         = "TEST_EMAIL"
	KeyLogLevel          = "LOG_LEVEL"
	KeyLogFile           = "LOG_FILE"
	KeySentryDSN         = "SENTRY_DSN"
	KeySentryEnvironment = "SENTRY_ENVIRONMENT"
)

// TemplateConfig selects the template and subject line.
type TemplateConfig struct {
	Dir     string
	Name    string
	Layout  string
	Subject string
}

// RateLimitConfig configures the optional token bucket. RPS of zero disables it.
type RateLimitConfig struct {
	RPS     float64
	Burst   int
	Backoff time.Duration
}

// Enabled reports whether a rate limiter should be installed.
func (c RateLimitConfig) Enabled() bool {
	return c.RPS > 0 || c.Backoff > 0
}

// RetryConfig configures transport retries. Max of zero means one attempt.
type RetryConfig struct {
	BaseDelay time.Duration
	Max       uint64
}

// Config is the full runtime configuration.
type Config struct {
	Sender         mailer.SenderConfig
	Template       TemplateConfig
	Transport      string
	RecipientField string
	TestEmail      string
	Log            logger.Config
	RateLimit      RateLimitConfig
	Retry          RetryConfig
	Pacing         batch.PacingPolicy
	MaxValueLength int
	HTML           sanitizer.HTMLMode // STRIP_HTML: false, true/strip or safe
	FailFast       bool
}

// Load reads configuration from the environment.
//
// envFiles are loaded with godotenv first; a missing file is ignored and
// variables already set in the process win. When no env file is given ".env"
// is tried. configFile is an optional YAML, JSON or TOML file read by viper;
// environment variables override its values.
//
// Sender credentials are not validated here: a missing credential is reported
// per message at send time.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Join(ErrReadEnvFile, fmt.Errorf("%s: %w", f, err))
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Join(ErrReadConfig, err)
		}
	}

	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyTransport, TransportSMTP)

	host, port := "smtp.gmail.com", 587
	if strings.EqualFold(v.GetString(KeyTransport), TransportResend) {
		host, port = resend.DefaultHost, resend.DefaultPort
	}
	v.SetDefault(KeySMTPServer, host)
	v.SetDefault(KeySMTPPort, port)

	v.SetDefault(KeyTemplatesDir, "templates")
	v.SetDefault(KeyTemplateName, dispatch.DefaultTemplate)
	v.SetDefault(KeyLayoutName, "base.html")
	v.SetDefault(KeySubject, dispatch.DefaultSubject)

	v.SetDefault(KeyBatchSize, batch.DefaultBatchSize)
	v.SetDefault(KeyItemDelay, batch.DefaultItemDelay.String())
	v.SetDefault(KeyBatchDelay, batch.DefaultBatchDelay.String())

	v.SetDefault(KeyRateLimitBurst, 1)
	v.SetDefault(KeyRetryBaseDelay, "1s")
	v.SetDefault(KeyRecipientField, batch.DefaultRecipientField)
	v.SetDefault(KeyMaxValueLength, sanitizer.DefaultMaxLength)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySentryEnvironment, "production")
}

func fromViper(v *viper.Viper) (*Config, error) {
	var errs []error
	dur := func(key string) time.Duration {
		d, err := parseDuration(v.GetString(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	htmlMode, err := sanitizer.ParseHTMLMode(v.GetString(KeyStripHTML))
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyStripHTML, err))
	}

	cfg := &Config{
		Sender: mailer.SenderConfig{
			Host:          strings.TrimSpace(v.GetString(KeySMTPServer)),
			Port:          v.GetInt(KeySMTPPort),
			SenderAddress: strings.TrimSpace(v.GetString(KeySenderEmail)),
			Credential:    v.GetString(KeyEmailPassword),
			SenderName:    v.GetString(KeySenderName),
		},
		Transport: strings.ToLower(strings.TrimSpace(v.GetString(KeyTransport))),
		Template: TemplateConfig{
			Dir:     v.GetString(KeyTemplatesDir),
			Name:    v.GetString(KeyTemplateName),
			Layout:  v.GetString(KeyLayoutName),
			Subject: v.GetString(KeySubject),
		},
		Pacing: batch.PacingPolicy{
			ItemDelay:  dur(KeyItemDelay),
			BatchDelay: dur(KeyBatchDelay),
			BatchSize:  v.GetInt(KeyBatchSize),
		},
		RateLimit: RateLimitConfig{
			RPS:     v.GetFloat64(KeyRateLimitRPS),
			Burst:   v.GetInt(KeyRateLimitBurst),
			Backoff: dur(KeyTransportBackoff),
		},
		Retry: RetryConfig{
			Max:       v.GetUint64(KeySendRetries),
			BaseDelay: dur(KeyRetryBaseDelay),
		},
		RecipientField: strings.TrimSpace(v.GetString(KeyRecipientField)),
		MaxValueLength: v.GetInt(KeyMaxValueLength),
		HTML:           htmlMode,
		FailFast:       v.GetBool(KeyFailFast),
		TestEmail:      strings.TrimSpace(v.GetString(KeyTestEmail)),
		Log: logger.Config{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
			Sentry: logger.SentryConfig{
				DSN:         v.GetString(KeySentryDSN),
				Environment: v.GetString(KeySentryEnvironment),
				MinLevel:    slog.LevelWarn,
			},
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(ErrInvalidValue, errors.Join(errs...))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks everything except sender completeness.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportSMTP, TransportResend:
	default:
		return fmt.Errorf("%w: %s must be %q or %q, got %q",
			ErrInvalidValue, KeyTransport, TransportSMTP, TransportResend, c.Transport)
	}
	if err := c.Pacing.Validate(); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	if c.MaxValueLength < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidValue, KeyMaxValueLength)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Backoff < 0 {
		return fmt.Errorf("%w: rate limit values must not be negative", ErrInvalidValue)
	}
	if c.RecipientField == "" {
		return fmt.Errorf("%w: %s is empty", ErrInvalidValue, KeyRecipientField)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	return nil
}

// parseDuration accepts Go durations ("1.5s", "250ms") and bare numbers,
// which are read as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
