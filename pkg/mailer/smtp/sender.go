// Package smtp implements mailer.Sender over SMTP with STARTTLS and PLAIN auth.
//
// Every Send opens its own session: dial, EHLO, STARTTLS, AUTH, MAIL/RCPT/DATA,
// QUIT. Nothing is held open between calls, so a dropped connection only
// affects the message being sent.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	netsmtp "net/smtp"
	"time"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrTLSUnavailable is returned when the server does not offer STARTTLS
	// and insecure delivery was not allowed.
	ErrTLSUnavailable = errors.New("smtp: server does not support STARTTLS")

	// ErrAuthUnavailable is returned when the server does not offer AUTH.
	ErrAuthUnavailable = errors.New("smtp: server does not support AUTH")
)

// DialFunc opens the raw connection to the server.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Sender delivers mail through an SMTP relay.
type Sender struct {
	dial          DialFunc
	tlsConfig     *tls.Config
	localName     string
	timeout       time.Duration
	allowInsecure bool
}

// Option configures the Sender.
type Option func(*Sender)

// WithTimeout bounds a whole session. Defaults to 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(s *Sender) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithTLSConfig sets the TLS config used for STARTTLS.
// ServerName is filled from SenderConfig.Host when empty.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Sender) {
		if cfg != nil {
			s.tlsConfig = cfg
		}
	}
}

// WithLocalName sets the EHLO hostname. Defaults to "localhost".
func WithLocalName(name string) Option {
	return func(s *Sender) {
		if name != "" {
			s.localName = name
		}
	}
}

// WithDialer replaces the network dialer.
func WithDialer(dial DialFunc) Option {
	return func(s *Sender) {
		if dial != nil {
			s.dial = dial
		}
	}
}

// WithInsecure allows delivery when the server does not offer STARTTLS.
// Only meant for local relays and tests.
func WithInsecure() Option {
	return func(s *Sender) {
		s.allowInsecure = true
	}
}

// New creates an SMTP sender.
func New(opts ...Option) *Sender {
	s := &Sender{
		timeout:   defaultTimeout,
		localName: "localhost",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dial == nil {
		d := &net.Dialer{Timeout: s.timeout}
		s.dial = d.DialContext
	}
	return s
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email, cfg mailer.SenderConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(email.To) != 1 {
		return mailer.ErrNoRecipient
	}

	if err := s.send(ctx, email, cfg); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}
	return nil
}

func (s *Sender) send(ctx context.Context, email *mailer.Email, cfg mailer.SenderConfig) error {
	raw, err := buildMessage(email, cfg, time.Now())
	if err != nil {
		return fmt.Errorf("smtp: build message: %w", err)
	}

	conn, err := s.dial(ctx, "tcp", cfg.Addr())
	if err != nil {
		return fmt.Errorf("smtp: dial %s: %w", cfg.Addr(), err)
	}

	deadline := time.Now().Add(s.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	// unblock any pending read or write if the caller gives up
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := netsmtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp: handshake: %w", err)
	}
	defer client.Close()

	if err := s.deliver(client, email, cfg, raw); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ctxErr, err)
		}
		return err
	}
	return nil
}

func (s *Sender) deliver(client *netsmtp.Client, email *mailer.Email, cfg mailer.SenderConfig, raw []byte) error {
	if err := client.Hello(s.localName); err != nil {
		return fmt.Errorf("smtp: ehlo: %w", err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
		if s.tlsConfig != nil {
			tlsCfg = s.tlsConfig.Clone()
			if tlsCfg.ServerName == "" {
				tlsCfg.ServerName = cfg.Host
			}
		}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("smtp: starttls: %w", err)
		}
	} else if !s.allowInsecure {
		return ErrTLSUnavailable
	}

	if ok, _ := client.Extension("AUTH"); !ok {
		return ErrAuthUnavailable
	}
	auth := netsmtp.PlainAuth("", cfg.SenderAddress, cfg.Credential, cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp: auth: %w", err)
	}

	if err := client.Mail(cfg.SenderAddress); err != nil {
		return fmt.Errorf("smtp: mail from: %w", err)
	}
	if err := client.Rcpt(email.To[0]); err != nil {
		return fmt.Errorf("smtp: rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp: data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp: finish data: %w", err)
	}

	if err := client.Quit(); err != nil {
		return fmt.Errorf("smtp: quit: %w", err)
	}
	return nil
}
