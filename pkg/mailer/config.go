package mailer

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// SenderConfig holds transport settings shared by every Sender.
// For API-based providers Credential is the API key.
type SenderConfig struct {
	Host          string
	SenderAddress string
	Credential    string
	SenderName    string // optional display name
	Port          int
}

// Validate reports which required fields are missing.
func (c SenderConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Host) == "" {
		missing = append(missing, "host")
	}
	if c.Port <= 0 {
		missing = append(missing, "port")
	}
	if strings.TrimSpace(c.SenderAddress) == "" {
		missing = append(missing, "sender address")
	}
	if c.Credential == "" {
		missing = append(missing, "credential")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteConfig, strings.Join(missing, ", "))
	}
	return nil
}

// Addr returns host:port.
func (c SenderConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// From returns the header form of the sender.
func (c SenderConfig) From() string {
	return Recipient(c.SenderName, c.SenderAddress)
}

// LogValue keeps the credential out of logs.
func (c SenderConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("host", c.Host),
		slog.Int("port", c.Port),
		slog.String("sender", c.SenderAddress),
		slog.Bool("credential_set", c.Credential != ""),
	)
}
