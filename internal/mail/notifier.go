// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail sends operator notifications over SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/events"
)

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Notifier mails a message to the operator for every contact submission.
type Notifier struct {
	cfg    Config
	send   SendFunc
	logger *slog.Logger
	now    func() time.Time
}

// NewNotifier creates a Notifier that sends through smtp.SendMail.
func NewNotifier(cfg Config, logger *slog.Logger) *Notifier {
	return &Notifier{cfg: cfg, send: smtp.SendMail, logger: logger, now: time.Now}
}

// WithSender replaces the transport, for tests.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	n.send = send
	return n
}

// HandleEvent sends the notification for contact.created events. It is an
// events.Handler and runs on a dispatcher worker, so a slow SMTP server
// never delays the submission.
func (n *Notifier) HandleEvent(ctx context.Context, e events.Event) error {
	if e.Type != events.ContactCreated {
		return nil
	}
	data, ok := e.Data.(events.ContactEventData)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", e.Data, e.Type)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := n.compose(data)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	n.logger.Info("contact notification sent", "category", "contact", "submission_id", data.SubmissionID)
	return nil
}

func (n *Notifier) compose(d events.ContactEventData) []byte {
	var b bytes.Buffer
	subject := fmt.Sprintf("New contact submission #%d: %s", d.SubmissionID, d.Subject)
	writeHeader(&b, "From", n.cfg.From)
	writeHeader(&b, "To", n.cfg.To)
	writeHeader(&b, "Reply-To", d.Email)
	writeHeader(&b, "Subject", mime.QEncoding.Encode("utf-8", subject))
	writeHeader(&b, "Date", n.now().Format(time.RFC1123Z))
	writeHeader(&b, "MIME-Version", "1.0")
	writeHeader(&b, "Content-Type", `text/plain; charset="utf-8"`)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Name: %s\r\n", singleLine(d.Name))
	fmt.Fprintf(&b, "Email: %s\r\n", singleLine(d.Email))
	fmt.Fprintf(&b, "Project type: %s\r\n", singleLine(d.Subject))
	fmt.Fprintf(&b, "Submitted: %s\r\n\r\n", d.SubmittedAt.Format(time.RFC3339))
	b.WriteString(strings.ReplaceAll(d.Message, "\n", "\r\n"))
	b.WriteString("\r\n")
	return b.Bytes()
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// writeHeader writes one header line, dropping CR and LF from the value.
func writeHeader(b *bytes.Buffer, key, value string) {
	fmt.Fprintf(b, "%s: %s\r\n", key, singleLine(value))
}

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}
