package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/clinicassist/appointment-agent/pkg/logging"
)

// SMTPSender delivers mail through a plain SMTP relay. The relay's STARTTLS
// offer is honored automatically by net/smtp.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	logger    *logging.Logger
}

// SMTPConfig holds configuration for an SMTP relay.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
}

// NewSMTPSender creates a new SMTP email sender.
func NewSMTPSender(cfg SMTPConfig, logger *logging.Logger) *SMTPSender {
	if cfg.Host == "" {
		return nil
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SMTPSender{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		fromEmail: cfg.FromEmail,
		logger:    logger,
	}
}

// Send sends a plain-text email through the relay. The context is accepted
// for interface symmetry; net/smtp does not support cancellation mid-send.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if s.host == "" {
		return fmt.Errorf("notify: smtp relay not configured")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{msg.To}, []byte(b.String())); err != nil {
		s.logger.Error("smtp send failed", "error", err, "to", msg.To, "relay", addr)
		return fmt.Errorf("notify: smtp send failed: %w", err)
	}

	s.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject, "relay", addr)
	return nil
}

var _ EmailSender = (*SMTPSender)(nil)
