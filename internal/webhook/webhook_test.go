// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/events"
)

const testSecret = "webhook-test-secret"

type received struct {
	event     string
	signature string
	body      []byte
}

type receiver struct {
	mu       sync.Mutex
	requests []received
	statuses []int // served in order, then 200
	calls    atomic.Int32
}

func (rc *receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	n := int(rc.calls.Add(1)) - 1

	rc.mu.Lock()
	rc.requests = append(rc.requests, received{
		event:     r.Header.Get(HeaderEvent),
		signature: r.Header.Get(HeaderSignature),
		body:      body,
	})
	status := http.StatusOK
	if n < len(rc.statuses) {
		status = rc.statuses[n]
	}
	rc.mu.Unlock()

	w.WriteHeader(status)
}

func (rc *receiver) snapshot() []received {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return append([]received(nil), rc.requests...)
}

func newTestSender(t *testing.T, rc *receiver, cfg Config) *Sender {
	t.Helper()
	srv := httptest.NewServer(rc)
	t.Cleanup(srv.Close)

	cfg.URL = srv.URL
	cfg.Secret = testSecret
	cfg.Workers = 1
	cfg.InitialBackoff = time.Millisecond
	if cfg.Debounce.Interval == 0 {
		cfg.Debounce = DebounceConfig{Interval: 20 * time.Millisecond, MaxWait: time.Second}
	}
	s := NewSender(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).WithClient(srv.Client())
	s.Start(context.Background())
	t.Cleanup(s.Stop)
	return s
}

func TestSenderDeliversSignedEvent(t *testing.T) {
	rc := &receiver{}
	s := newTestSender(t, rc, Config{})

	e := events.NewEvent(events.ContactCreated, events.ContactEventData{SubmissionID: 7, Name: "Ada"})
	require.NoError(t, s.HandleEvent(context.Background(), e))

	require.Eventually(t, func() bool { return len(rc.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	got := rc.snapshot()[0]
	assert.Equal(t, events.ContactCreated, got.event)
	assert.True(t, VerifySignature(got.body, got.signature, testSecret))

	var payload struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(got.body, &payload))
	assert.Equal(t, events.ContactCreated, payload.Type)
	assert.Equal(t, float64(7), payload.Data["submission_id"])
}

func TestSenderRetriesServerErrors(t *testing.T) {
	rc := &receiver{statuses: []int{http.StatusInternalServerError, http.StatusTooManyRequests}}
	s := newTestSender(t, rc, Config{})

	require.NoError(t, s.HandleEvent(context.Background(), events.NewEvent(events.ImageUploaded, events.ImageEventData{ImageID: 1})))

	require.Eventually(t, func() bool { return rc.calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(3), rc.calls.Load())
}

func TestSenderDoesNotRetryClientErrors(t *testing.T) {
	rc := &receiver{statuses: []int{http.StatusBadRequest}}
	s := newTestSender(t, rc, Config{})

	require.NoError(t, s.HandleEvent(context.Background(), events.NewEvent(events.ImageUploaded, events.ImageEventData{ImageID: 1})))

	require.Eventually(t, func() bool { return rc.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), rc.calls.Load())
}

func TestSenderFiltersEvents(t *testing.T) {
	rc := &receiver{}
	s := newTestSender(t, rc, Config{Events: []string{events.ContactCreated}})
	ctx := context.Background()

	require.NoError(t, s.HandleEvent(ctx, events.NewEvent(events.SettingUpdated, events.SettingEventData{Key: "site_title"})))
	require.NoError(t, s.HandleEvent(ctx, events.NewEvent(events.ContactCreated, events.ContactEventData{SubmissionID: 1})))

	require.Eventually(t, func() bool { return len(rc.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, events.ContactCreated, rc.snapshot()[0].event)
}

func TestSenderCoalescesProjectUpdates(t *testing.T) {
	rc := &receiver{}
	s := newTestSender(t, rc, Config{})
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, s.HandleEvent(ctx, events.NewEvent(events.ProjectUpdated, events.ProjectEventData{ID: 3, Title: title})))
	}
	require.NoError(t, s.HandleEvent(ctx, events.NewEvent(events.ProjectUpdated, events.ProjectEventData{ID: 4, Title: "other"})))

	require.Eventually(t, func() bool { return len(rc.snapshot()) == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	got := rc.snapshot()
	require.Len(t, got, 2)

	titles := map[string]bool{}
	for _, r := range got {
		var payload struct {
			Data events.ProjectEventData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(r.body, &payload))
		titles[payload.Data.Title] = true
	}
	assert.Equal(t, map[string]bool{"c": true, "other": true}, titles)
}

func TestSenderStopFlushesPending(t *testing.T) {
	rc := &receiver{}
	s := newTestSender(t, rc, Config{Debounce: DebounceConfig{Interval: time.Hour, MaxWait: time.Hour}})

	require.NoError(t, s.HandleEvent(context.Background(), events.NewEvent(events.ProjectUpdated, events.ProjectEventData{ID: 1})))
	assert.Equal(t, 1, s.debouncer.PendingCount())

	s.Stop()
	assert.Len(t, rc.snapshot(), 1)
	assert.Error(t, s.enqueue(events.NewEvent(events.ContactCreated, nil)))
}

func TestSignature(t *testing.T) {
	payload := []byte(`{"type":"contact.created"}`)
	sig := GenerateSignature(payload, "secret")

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, GenerateSignature(payload, "secret"))
	assert.NotEqual(t, sig, GenerateSignature(payload, "other"))
	assert.True(t, VerifySignature(payload, sig, "secret"))
	assert.False(t, VerifySignature(payload, sig, "other"))
	assert.False(t, VerifySignature([]byte("tampered"), sig, "secret"))
}

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		attempt int64
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{20, MaxBackoff},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, calculateBackoff(InitialBackoff, tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestEventKey(t *testing.T) {
	tests := []struct {
		event events.Event
		want  string
	}{
		{events.NewEvent(events.ProjectUpdated, events.ProjectEventData{ID: 5}), "project.updated:5"},
		{events.NewEvent(events.ImageUploaded, events.ImageEventData{ImageID: 2}), "image.uploaded:2"},
		{events.NewEvent(events.ContactCreated, events.ContactEventData{SubmissionID: 9}), "contact.created:9"},
		{events.NewEvent(events.SettingUpdated, events.SettingEventData{Key: "k"}), "setting.updated:k"},
		{events.NewEvent(events.ImageUploaded, events.EntityData{Entity: "gallery", ID: 1}), "image.uploaded:gallery:1"},
		{events.NewEvent(events.ProjectDeleted, "opaque"), "project.deleted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, eventKey(tt.event))
	}
}
