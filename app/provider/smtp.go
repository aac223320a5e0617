package provider

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

// SMTPProvider delivers mail over SMTP with STARTTLS, authenticating as the
// sender account itself with its app password. Defaults target Gmail
// submission (smtp.gmail.com:587).
type SMTPProvider struct {
	host        string
	port        string
	dialTimeout time.Duration
}

// NewSMTPProvider builds an SMTP transport for the given submission host.
func NewSMTPProvider(host, port string) *SMTPProvider {
	return &SMTPProvider{host: host, port: port, dialTimeout: 5 * time.Second}
}

// SendRaw connects, upgrades to TLS, authenticates as the sender, and
// submits the raw message. The context deadline bounds the whole exchange.
func (p *SMTPProvider) SendRaw(ctx context.Context, from Identity, to []string, raw []byte) error {
	if from.Email == "" || from.AppPassword == "" {
		return fmt.Errorf("sender identity is incomplete")
	}
	if len(to) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if len(raw) == 0 {
		return fmt.Errorf("raw content is required")
	}

	addr := net.JoinHostPort(p.host, p.port)
	conn, err := net.DialTimeout("tcp", addr, p.dialTimeout)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: p.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", from.Email, from.AppPassword, p.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth as %s: %w", from.Email, err)
	}

	if err := client.Mail(from.Email); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp finish: %w", err)
	}

	return client.Quit()
}
