package dispatch

import (
	"log/slog"
	"time"
)

// Record is one recipient's data bundle. The dispatcher treats it as read-only.
type Record = map[string]any

// Reason classifies a dispatch outcome.
type Reason int

const (
	// ReasonNone means the message was handed to the transport.
	ReasonNone Reason = iota
	// ReasonConfiguration means the SenderConfig is incomplete. Nothing was sent.
	ReasonConfiguration
	// ReasonInvalidRecipient means the address is missing or malformed.
	ReasonInvalidRecipient
	// ReasonRender means the template failed or produced an empty body.
	ReasonRender
	// ReasonTransport means the sender returned an error, after any retries.
	ReasonTransport
	// ReasonCanceled means the context ended while the message was in flight.
	ReasonCanceled
)

// String implements fmt.Stringer.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonConfiguration:
		return "configuration"
	case ReasonInvalidRecipient:
		return "invalid_recipient"
	case ReasonRender:
		return "render"
	case ReasonTransport:
		return "transport"
	case ReasonCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Sentinel returns the error every outcome with this reason wraps.
func (r Reason) Sentinel() error {
	switch r {
	case ReasonConfiguration:
		return ErrMissingConfiguration
	case ReasonInvalidRecipient:
		return ErrInvalidRecipient
	case ReasonRender:
		return ErrRenderFailed
	case ReasonTransport:
		return ErrTransportFailed
	case ReasonCanceled:
		return ErrCanceled
	default:
		return nil
	}
}

// Outcome is the result of one dispatch attempt.
type Outcome struct {
	Err       error // nil on success; wraps Reason.Sentinel() otherwise
	Recipient string
	Index     int // position in the batch; 0 for single sends
	Attempts  int // transport attempts made
	Duration  time.Duration
	Reason    Reason
}

// OK reports whether the message was delivered.
func (o Outcome) OK() bool {
	return o.Reason == ReasonNone
}

// LogValue implements slog.LogValuer.
func (o Outcome) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("index", o.Index),
		slog.String("recipient", o.Recipient),
		slog.String("reason", o.Reason.String()),
		slog.Int("attempts", o.Attempts),
		slog.Duration("duration", o.Duration),
	}
	if o.Err != nil {
		attrs = append(attrs, slog.String("error", o.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
