// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Notifier delivers voting emails out of band. The core only needs
// send-and-report-failure; delivery mechanics live behind this boundary.
type Notifier interface {
	// SendVerification delivers a signed verification link to a voter.
	SendVerification(ctx context.Context, email, link string) error
	// SendConfirmation tells a voter their ballot was recorded. Callers
	// treat failures as non-fatal: the ballot is already committed.
	SendConfirmation(ctx context.Context, email string) error
}

// LogNotifier writes the verification link to the log instead of sending
// mail. Default in development and tests.
type LogNotifier struct{}

func (LogNotifier) SendVerification(_ context.Context, email, link string) error {
	slog.Info("verification link issued", "email", email, "link", link)
	return nil
}

func (LogNotifier) SendConfirmation(_ context.Context, email string) error {
	slog.Info("vote confirmation issued", "email", email)
	return nil
}

// SMTPNotifier sends through a plain-auth SMTP relay.
type SMTPNotifier struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (n *SMTPNotifier) SendVerification(_ context.Context, email, link string) error {
	body := "Click the link below to verify your email and proceed to voting:\r\n\r\n" + link + "\r\n"
	return n.send(email, "EaseMyVote Email Verification", body)
}

func (n *SMTPNotifier) SendConfirmation(_ context.Context, email string) error {
	body := "Dear voter, your vote has been successfully recorded. Thank you for voting in EaseMyVote!\r\n"
	return n.send(email, "EaseMyVote: Vote Confirmation", body)
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.Username)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.Host, n.Port)
	auth := smtp.PlainAuth("", n.Username, n.Password, n.Host)
	if err := smtp.SendMail(addr, auth, n.Username, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
