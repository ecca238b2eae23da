// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package mail defines the outbound mail collaborator used by the
password-reset flow.

The service layer depends only on the [Mailer] interface; delivery transport
is an external concern. A send failure is surfaced to the caller so the flow
can abort before any reset state is persisted.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

// Message is a single outbound plain-text mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, message Message) error
}

// # SMTP Delivery

// SMTPMailer sends mail through a standard SMTP relay with PLAIN auth.
type SMTPMailer struct {
	host string
	port int
	auth smtp.Auth
	from string
}

// NewSMTPMailer constructs an [SMTPMailer].
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	return &SMTPMailer{host: host, port: port, auth: auth, from: from}
}

// Send delivers the message synchronously.
//
// net/smtp does not accept a context; the SMTP dial/write obeys the server's
// own timeouts. Callers treat any error as a delivery failure.
func (mailer *SMTPMailer) Send(_ context.Context, message Message) error {
	addr := fmt.Sprintf("%s:%d", mailer.host, mailer.port)

	payload := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		mailer.from, message.To, message.Subject, message.Body,
	))

	if err := smtp.SendMail(addr, mailer.auth, mailer.from, []string{message.To}, payload); err != nil {
		return fmt.Errorf("mail: smtp send failed: %w", err)
	}

	return nil
}

// # Development Fallback

// LogMailer writes mail to the structured log instead of delivering it.
// Development only: it would leak reset codes into logs in production.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer constructs a [LogMailer].
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message and always succeeds.
func (mailer *LogMailer) Send(ctx context.Context, message Message) error {
	mailer.logger.InfoContext(ctx, "mail_logged_instead_of_sent",
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("body", message.Body),
	)
	return nil
}
