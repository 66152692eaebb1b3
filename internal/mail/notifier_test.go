// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/portfolio-api/internal/events"
)

func testNotifier(send SendFunc) *Notifier {
	n := NewNotifier(Config{
		Host: "smtp.example.test",
		Port: 587,
		From: "site@example.test",
		To:   "owner@example.test",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	n.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return n.WithSender(send)
}

func contactEvent() events.Event {
	return events.NewEvent(events.ContactCreated, events.ContactEventData{
		SubmissionID: 7,
		Name:         "Jane",
		Email:        "jane@example.test\r\nBcc: evil@example.test",
		Subject:      "Logo Design",
		Message:      "line one\nline two",
		SubmittedAt:  time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC),
	})
}

func TestHandleEventSendsMail(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	n := testNotifier(func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	})

	if err := n.HandleEvent(context.Background(), contactEvent()); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if gotAddr != "smtp.example.test:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if len(gotTo) != 1 || gotTo[0] != "owner@example.test" {
		t.Errorf("to = %v", gotTo)
	}
	if !strings.Contains(gotMsg, "New contact submission #7") {
		t.Errorf("subject missing from message:\n%s", gotMsg)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Errorf("header injection not stripped:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "\r\nEmail: jane@example.testBcc: evil@example.test\r\n") {
		t.Errorf("email field not flattened to one line:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "line one\r\nline two") {
		t.Errorf("body not CRLF-normalized:\n%s", gotMsg)
	}
}

func TestHandleEventIgnoresOtherEvents(t *testing.T) {
	called := false
	n := testNotifier(func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})
	e := events.NewEvent(events.ProjectCreated, events.ProjectEventData{ID: 1})
	if err := n.HandleEvent(context.Background(), e); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if called {
		t.Error("sender called for a non-contact event")
	}
}

func TestHandleEventReportsSendFailure(t *testing.T) {
	n := testNotifier(func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	})
	if err := n.HandleEvent(context.Background(), contactEvent()); err == nil {
		t.Fatal("expected error")
	}
}
