// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package webhook delivers change events to an external HTTP endpoint.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/olegiv/portfolio-api/internal/events"
)

// ErrQueueFull is returned when an event cannot be queued for delivery.
var ErrQueueFull = errors.New("webhook queue full")

// Config holds sender configuration.
type Config struct {
	URL    string
	Secret string
	// Events limits delivery to these event types. Empty means all.
	Events         []string
	Workers        int
	QueueSize      int
	InitialBackoff time.Duration
	Debounce       DebounceConfig
}

// DefaultConfig returns the default sender settings for url.
func DefaultConfig(url, secret string) Config {
	return Config{
		URL:            url,
		Secret:         secret,
		Workers:        2,
		QueueSize:      100,
		InitialBackoff: InitialBackoff,
		Debounce:       DefaultDebounceConfig(),
	}
}

// Delivery is one queued webhook request.
type Delivery struct {
	ID      string
	Event   string
	Payload []byte
}

// Sender posts events to the configured URL from a pool of workers.
// Updates to the same project are coalesced before delivery.
type Sender struct {
	cfg       Config
	logger    *slog.Logger
	client    *http.Client
	debouncer *Debouncer
	queue     chan Delivery
	wg        sync.WaitGroup
	done      chan struct{}
	mu        sync.RWMutex
	running   bool
}

// NewSender creates a sender. Call Start before subscribing it.
func NewSender(cfg Config, logger *slog.Logger) *Sender {
	def := DefaultConfig(cfg.URL, cfg.Secret)
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.Debounce.Interval <= 0 {
		cfg.Debounce = def.Debounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Sender{
		cfg:    cfg,
		logger: logger,
		client: httpClient,
		queue:  make(chan Delivery, cfg.QueueSize),
		done:   make(chan struct{}),
	}
	s.debouncer = NewDebouncer(cfg.Debounce, func(e events.Event) {
		if err := s.enqueue(e); err != nil {
			s.logger.Warn("dropping debounced webhook event", "event_type", e.Type, "error", err)
		}
	})
	return s
}

// WithClient replaces the HTTP client, for tests.
func (s *Sender) WithClient(c *http.Client) *Sender {
	s.client = c
	return s
}

// Start starts the delivery workers.
func (s *Sender) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting webhook sender", "workers", s.cfg.Workers, "url", s.cfg.URL)
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
}

// Stop flushes coalesced events, makes one attempt for everything queued and
// waits for the workers to exit.
func (s *Sender) Stop() {
	s.debouncer.Stop()

	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("stopping webhook sender")
	close(s.done)
	s.wg.Wait()
	s.logger.Info("webhook sender stopped")
}

// HandleEvent is an events.Handler. Project updates are debounced, other
// subscribed events are queued immediately.
func (s *Sender) HandleEvent(_ context.Context, e events.Event) error {
	if !s.subscribed(e.Type) {
		return nil
	}
	if e.Type == events.ProjectUpdated {
		s.debouncer.Add(e)
		return nil
	}
	return s.enqueue(e)
}

func (s *Sender) subscribed(eventType string) bool {
	return len(s.cfg.Events) == 0 || slices.Contains(s.cfg.Events, eventType)
}

func (s *Sender) enqueue(e events.Event) error {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()
	if !running {
		return errors.New("webhook sender not running")
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", e.Type, err)
	}
	d := Delivery{ID: ulid.Make().String(), Event: e.Type, Payload: payload}

	select {
	case s.queue <- d:
		s.logger.Debug("webhook delivery queued", "delivery_id", d.ID, "event_type", d.Event)
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Sender) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	s.logger.Debug("webhook worker started", "worker_id", id)

	for {
		select {
		case <-s.done:
			s.drain(ctx)
			s.logger.Debug("webhook worker stopping", "worker_id", id)
			return
		case <-ctx.Done():
			s.logger.Debug("webhook worker context cancelled", "worker_id", id)
			return
		case d := <-s.queue:
			s.process(ctx, d, MaxAttempts)
		}
	}
}

func (s *Sender) drain(ctx context.Context) {
	for {
		select {
		case d := <-s.queue:
			s.process(ctx, d, 1)
		default:
			return
		}
	}
}

// GenerateSignature returns the hex HMAC-SHA256 of payload.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches payload.
func VerifySignature(payload []byte, signature, secret string) bool {
	return hmac.Equal([]byte(signature), []byte(GenerateSignature(payload, secret)))
}
