package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"mobilemech/models"
	"mobilemech/utils"

	"go.uber.org/zap"
)

// Mailer delivers a rendered email.
type Mailer interface {
	Send(ctx context.Context, p models.EmailPayload) error
}

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// NewMailer returns an SMTPMailer, or a LogMailer when host is empty.
func NewMailer(host string, port int, username, password, from string) Mailer {
	if host == "" {
		return LogMailer{}
	}
	return &SMTPMailer{Host: host, Port: port, Username: username, Password: password, From: from}
}

func (m *SMTPMailer) Send(_ context.Context, p models.EmailPayload) error {
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", p.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", p.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(p.Body)

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.From, []string{p.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", p.To, err)
	}
	return nil
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, p models.EmailPayload) error {
	utils.GetLogger().Info("Email (not sent, no SMTP host configured)",
		zap.String("to", p.To),
		zap.String("type", p.Type),
		zap.String("subject", p.Subject),
		zap.String("bookingID", p.BookingID))
	return nil
}
