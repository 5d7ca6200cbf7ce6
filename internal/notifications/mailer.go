package notifications

import (
	"fmt"
	"net/smtp"
	"strings"

	"stayhub/pkg/config"
	"stayhub/pkg/logger"
)

// Mailer delivers a rendered email to a single recipient.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type smtpMailer struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewMailer returns an SMTP-backed mailer when the SMTP block is configured,
// otherwise a mailer that only logs the delivery. The log-only mode keeps
// local development working without a mail relay.
func NewMailer(cfg *config.Config) Mailer {
	if !cfg.SMTP.Configured() {
		cfg.Log.Warn("SMTP not configured, email delivery will be logged only")
		return &logMailer{log: cfg.Log}
	}
	return &smtpMailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		user:     cfg.SMTP.User,
		password: cfg.SMTP.Password,
		from:     fmt.Sprintf("%s <%s>", cfg.SMTP.FromName, cfg.SMTP.User),
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.user, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) Send(to, subject, _ string) error {
	m.log.Info("Email delivery skipped (SMTP not configured)",
		"to", to,
		"subject", subject,
	)
	return nil
}
