// Package notifier dispatches outbound notifications in the background.
// Deliveries are strictly best-effort: a failed or dropped notification is
// logged and never surfaces to the request that triggered it.
package notifier

import "context"

// Message is a single outbound email notification.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// Mailer sends a single message to the email provider.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NopMailer discards every message. Used when email is disabled.
type NopMailer struct{}

// Send implements Mailer by doing nothing.
func (NopMailer) Send(ctx context.Context, msg Message) error {
	return nil
}
