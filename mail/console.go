package mail

import (
	"context"

	"github.com/vigidengue/accounts/internal/logging"
)

// ConsoleMailer logs messages instead of delivering them. It is the
// development backend: no network, tokens and codes end up in the log where
// the developer can read them.
type ConsoleMailer struct {
	log logging.Logger
}

// NewConsoleMailer returns a mailer writing through log.
func NewConsoleMailer(log logging.Logger) *ConsoleMailer {
	if log == nil {
		log = logging.Nop{}
	}
	return &ConsoleMailer{log: log}
}

// Send logs the message and always succeeds.
func (m *ConsoleMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	m.log.Info(ctx, "outbound email",
		"to", to,
		"subject", subject,
		"text", textBody,
		"html", htmlBody,
	)
	return nil
}
