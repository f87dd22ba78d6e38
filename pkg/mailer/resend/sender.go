// Package resend implements mailer.Sender on top of the Resend HTTP API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
// SenderConfig.Credential is used as the API key; one client is kept per key.
type Sender struct {
	newClient func(apiKey string) emailsAPI

	mu      sync.Mutex
	clients map[string]emailsAPI
}

// emailsAPI is the subset of the Resend client the sender needs.
type emailsAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// New creates a new Resend sender.
func New() *Sender {
	return &Sender{
		newClient: func(apiKey string) emailsAPI {
			return resend.NewClient(apiKey).Emails
		},
		clients: make(map[string]emailsAPI),
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email, cfg mailer.SenderConfig) error {
	if cfg.Credential == "" {
		return errors.Join(mailer.ErrIncompleteConfig, errors.New("resend: api key is empty"))
	}

	from := email.From
	if from == "" {
		from = cfg.From()
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		Headers: email.Headers,
	}

	if _, err := s.client(cfg.Credential).SendWithContext(ctx, req); err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("resend: %w", err))
	}

	return nil
}

func (s *Sender) client(apiKey string) emailsAPI {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.clients[apiKey]
	if !ok {
		c = s.newClient(apiKey)
		s.clients[apiKey] = c
	}
	return c
}
