// Package mailer delivers outreach emails over SMTP.
package mailer

import (
	"log/slog"
	"os"

	gomail "gopkg.in/gomail.v2"

	"github.com/baxromumarov/intern-scout/internal/observability"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

func New(host string, port int, user, password string, logger *slog.Logger) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
		logger: logger,
	}
}

// Send delivers one plaintext email with an optional attachment and
// reports success. Delivery failure is logged and never aborts the run.
func (m *Mailer) Send(to, subject, body, attachmentPath string) bool {
	if to == "" {
		m.logger.Warn("no recipient email provided")
		return false
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err == nil {
			msg.Attach(attachmentPath)
		} else {
			m.logger.Warn("attachment missing, sending without it", "path", attachmentPath)
		}
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		observability.IncError(observability.ErrorSMTP, "mailer")
		m.logger.Error("failed to send email", "to", to, "error", err)
		return false
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return true
}
