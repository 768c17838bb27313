package email

import (
	"context"
	"log/slog"
)

// NoopSender logs sends without delivering. Used in development and
// whenever no API key is configured.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email but does not deliver it.
func (s *NoopSender) Send(_ context.Context, msg Message) error {
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return nil
}
