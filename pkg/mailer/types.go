package mailer

import (
	"context"
	"fmt"
)

// Sender delivers a single composed email.
//
// Implementations own the whole transport session for one call: connect,
// authenticate with cfg, transmit and close. Sender never retries on its own.
type Sender interface {
	Send(ctx context.Context, email *Email, cfg SenderConfig) error
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email, cfg SenderConfig) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, email *Email, cfg SenderConfig) error {
	return f(ctx, email, cfg)
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// ContentType is the media type of a rendered body part.
type ContentType string

const (
	// ContentHTML marks a message whose primary part is the rendered HTML.
	ContentHTML ContentType = "text/html"
	// ContentText marks a plain text only message.
	ContentText ContentType = "text/plain"
)

// WithCharset returns the Content-Type header value for a UTF-8 body.
func (c ContentType) WithCharset() string {
	return string(c) + "; charset=UTF-8"
}

// Email is a transport-ready message addressed to exactly one recipient.
type Email struct {
	Headers map[string]string // Custom headers
	Subject string
	From    string // Display form, may include a name
	To      []string
	HTML    string // Primary body part
	Text    string // Plain text alternative, optional
}

// ContentType reports the kind of the primary body part.
func (e *Email) ContentType() ContentType {
	if e.HTML != "" {
		return ContentHTML
	}
	return ContentText
}
