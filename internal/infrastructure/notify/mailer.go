// Package notify implements the outbound notification transports: SMTP mail
// with the invoice PDF attached, and a Fast2SMS-style bulk SMS API.
package notify

import (
	"context"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/billmate/billing-api/internal/application/billing"
	"github.com/billmate/billing-api/pkg/config"
)

var _ billing.Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends invoice mail over SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer builds the mailer.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one message with the PDF attached. The dial and send run in a
// goroutine so the context deadline is honored.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string, attachment []byte, fileName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if len(attachment) > 0 {
		msg.Attach(fileName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	done := make(chan error, 1)
	go func() { done <- dialer.DialAndSend(msg) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
