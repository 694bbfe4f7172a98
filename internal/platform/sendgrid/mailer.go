// Package sendgrid adapts the SendGrid API to the notifier.Mailer
// interface. It is the only place the email provider's SDK is touched.
package sendgrid

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/taskvault/taskvault-api/internal/config"
	"github.com/taskvault/taskvault-api/internal/notifier"
)

// Mailer sends notifications through the SendGrid v3 API.
type Mailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
	logger      *slog.Logger
}

// NewMailer creates a Mailer from the email configuration. The API key is
// read once at construction; an empty key is a caller error (use
// notifier.NopMailer when email is disabled).
func NewMailer(cfg config.EmailConfig, logger *slog.Logger) (*Mailer, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("sender address is required")
	}

	return &Mailer{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		logger:      logger.With("component", "sendgrid_mailer"),
	}, nil
}

var _ notifier.Mailer = (*Mailer)(nil)

// Send implements notifier.Mailer.
func (m *Mailer) Send(ctx context.Context, msg notifier.Message) error {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	email := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := m.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send rejected with status %d", resp.StatusCode)
	}

	m.logger.Debug("email accepted by provider",
		"status_code", resp.StatusCode,
		"subject", msg.Subject)
	return nil
}
