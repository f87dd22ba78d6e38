package mailer

import (
	"fmt"

	"github.com/dmitrymomot/courier/pkg/validator"
)

// Compose builds a transport-ready email from a rendered body.
// It refuses addresses that do not pass validator.Address, so every Email it
// returns has a syntactically valid recipient.
func Compose(subject, from, to string, body *RenderResult) (*Email, error) {
	if to == "" {
		return nil, ErrNoRecipient
	}
	if !validator.Address(to) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}
	if from == "" {
		return nil, ErrNoSender
	}
	if subject == "" {
		return nil, ErrNoSubject
	}
	if body == nil || body.HTML == "" {
		return nil, ErrNoContent
	}

	return &Email{
		Subject: subject,
		From:    from,
		To:      []string{to},
		HTML:    body.HTML,
		Text:    body.Text,
	}, nil
}
