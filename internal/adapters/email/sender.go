package email

import "context"

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers emails through an external provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
