package logger

import "context"

// Attribute keys added by the context handler.
const (
	BatchIDKey   = "batch_id"
	RecipientKey = "recipient"
)

type ctxKey int

const (
	batchIDKey ctxKey = iota
	recipientKey
)

// WithBatchID tags every record logged with ctx with the batch ID.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// WithRecipient tags every record logged with ctx with the recipient address.
func WithRecipient(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, recipientKey, addr)
}

// BatchID returns the batch ID stored by WithBatchID, or "".
func BatchID(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey).(string)
	return id
}

// Recipient returns the address stored by WithRecipient, or "".
func Recipient(ctx context.Context) string {
	addr, _ := ctx.Value(recipientKey).(string)
	return addr
}
