package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have exactly one recipient")

	// ErrInvalidRecipient indicates the recipient address failed validation.
	ErrInvalidRecipient = errors.New("invalid recipient address")

	// ErrNoSender indicates the sender address is missing.
	ErrNoSender = errors.New("email must have a sender")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no rendered body was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrIncompleteConfig indicates a required SenderConfig field is empty.
	ErrIncompleteConfig = errors.New("sender config is incomplete")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)
