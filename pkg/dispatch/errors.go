package dispatch

import "errors"

var (
	// ErrMissingConfiguration indicates a required SenderConfig field is empty.
	ErrMissingConfiguration = errors.New("dispatch: missing sender configuration")

	// ErrInvalidRecipient indicates the recipient address is absent or malformed.
	ErrInvalidRecipient = errors.New("dispatch: invalid recipient")

	// ErrRenderFailed indicates the template lookup or interpolation failed.
	ErrRenderFailed = errors.New("dispatch: render failed")

	// ErrTransportFailed indicates the sender could not deliver the message.
	ErrTransportFailed = errors.New("dispatch: transport failed")

	// ErrCanceled indicates the context was done before delivery completed.
	ErrCanceled = errors.New("dispatch: canceled")
)
