// Package mail provides the email transport backends: SMTP for real
// deployments and a console writer for development. Both satisfy the
// accounts.Mailer contract; delivery failures are the caller's to swallow.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// SMTPConfig carries the SMTP connection parameters.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	StartTLS    bool
	DialTimeout time.Duration
}

// SMTPMailer delivers messages over SMTP with STARTTLS. Each Send opens one
// bounded connection; there is no pooling because every message is already
// dispatched off the request path.
type SMTPMailer struct {
	config SMTPConfig
}

// NewSMTPMailer returns a mailer for cfg. A zero DialTimeout defaults to 30s.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 30 * time.Second
	}
	return &SMTPMailer{config: cfg}
}

// Send delivers one message. textBody may be empty; htmlBody is required.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	dialer := net.Dialer{Timeout: m.config.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.config.DialTimeout))
	}

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer func() { _ = client.Close() }()

	if m.config.StartTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.config.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if m.config.Username != "" {
		auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(m.config.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(buildMessage(m.config.From, to, subject, htmlBody, textBody))); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

const altBoundary = "accounts-alt-boundary"

// buildMessage assembles an RFC 822 message. With both bodies present it
// emits multipart/alternative, text part first so capable clients prefer the
// HTML part.
func buildMessage(from, to, subject, htmlBody, textBody string) string {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
	}

	var body []string
	if textBody == "" {
		headers = append(headers, `Content-Type: text/html; charset="UTF-8"`, "")
		body = []string{htmlBody}
	} else {
		headers = append(headers, fmt.Sprintf(`Content-Type: multipart/alternative; boundary=%q`, altBoundary), "")
		body = []string{
			"--" + altBoundary,
			`Content-Type: text/plain; charset="UTF-8"`,
			"",
			textBody,
			"--" + altBoundary,
			`Content-Type: text/html; charset="UTF-8"`,
			"",
			htmlBody,
			"--" + altBoundary + "--",
		}
	}

	return strings.Join(append(headers, body...), "\r\n")
}
