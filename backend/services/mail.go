package services

import (
	"fmt"
	"net/smtp"
	"strings"

	"academix/backend/config"
)

// Mailer sends a single HTML mail. Failures surface to the caller; there are
// no retries here.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer talks plain SMTP with the credentials from the environment.
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.MailHost,
		port: cfg.MailPort,
		user: cfg.MailUser,
		pass: cfg.MailPass,
		from: cfg.MailUser,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.host == "" {
		return fmt.Errorf("mail host not configured")
	}

	var msg strings.Builder
	msg.WriteString("From: Academix <" + m.from + ">\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
