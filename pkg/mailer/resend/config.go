package resend

// Default endpoint values, used to fill mailer.SenderConfig when the Resend
// transport is selected. The HTTP client itself talks to the SDK base URL.
const (
	DefaultHost = "api.resend.com"
	DefaultPort = 443
)
