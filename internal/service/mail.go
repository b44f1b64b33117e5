package service

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// SMTPMailer delivers mail through an SMTP relay
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

func (s *SMTPMailer) Send(ctx context.Context, m Mail) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)

	// gomail can't be cancelled, so the dial is left to finish on its own
	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer only logs mails. Used when no SMTP relay is configured
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Mail) error {
	zap.L().Info("Mail not sent, no relay configured",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
	)

	return nil
}
