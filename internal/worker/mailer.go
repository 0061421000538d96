package worker

import (
	"fmt"
	"net/smtp"
)

// Mailer sends plain-text transactional mail.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host string
	port int
	from string
}

func NewSMTPMailer(host string, port int, from string) Mailer {
	return &smtpMailer{host: host, port: port, from: from}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	// Local relays (MailHog and the like) need no auth.
	return smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg))
}
