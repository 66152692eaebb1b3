// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Delivery configuration constants
const (
	MaxAttempts    = 5                // Maximum number of delivery attempts
	InitialBackoff = 2 * time.Second  // Delay before the first retry
	MaxBackoff     = 5 * time.Minute  // Maximum backoff delay
	RequestTimeout = 15 * time.Second // HTTP request timeout
	MaxResponseLen = 4 * 1024         // Response body kept for logging
	UserAgent      = "portfolio-api-webhook/1.0"
)

// Header names set on every delivery.
const (
	HeaderSignature  = "X-Webhook-Signature"
	HeaderEvent      = "X-Webhook-Event"
	HeaderDeliveryID = "X-Webhook-Delivery-ID"
)

// DeliveryResult represents the result of a delivery attempt.
type DeliveryResult struct {
	Success      bool
	StatusCode   int
	ResponseBody string
	Error        error
	ShouldRetry  bool
}

var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	},
}

// process attempts d up to maxAttempts times with exponential backoff.
func (s *Sender) process(ctx context.Context, d Delivery, maxAttempts int) {
	for attempt := 1; ; attempt++ {
		result := s.attempt(ctx, d)
		if result.Success {
			s.logger.Info("webhook delivered",
				"delivery_id", d.ID,
				"event_type", d.Event,
				"status_code", result.StatusCode,
				"attempt", attempt)
			return
		}

		if !result.ShouldRetry || attempt >= maxAttempts {
			s.logger.Warn("webhook delivery abandoned",
				"delivery_id", d.ID,
				"event_type", d.Event,
				"attempts", attempt,
				"status_code", result.StatusCode,
				"response", result.ResponseBody,
				"error", result.Error)
			return
		}

		backoff := calculateBackoff(s.cfg.InitialBackoff, int64(attempt))
		s.logger.Info("webhook delivery scheduled for retry",
			"delivery_id", d.ID,
			"attempt", attempt,
			"backoff", backoff.String(),
			"error", result.Error)

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-s.done:
			timer.Stop()
			// Shutting down: one last try instead of waiting.
			maxAttempts = attempt + 1
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// attempt performs a single signed POST.
func (s *Sender) attempt(ctx context.Context, d Delivery) DeliveryResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(d.Payload))
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(HeaderSignature, GenerateSignature(d.Payload, s.cfg.Secret))
	req.Header.Set(HeaderEvent, d.Event)
	req.Header.Set(HeaderDeliveryID, d.ID)

	resp, err := s.client.Do(req)
	if err != nil {
		return DeliveryResult{Error: fmt.Errorf("request failed: %w", err), ShouldRetry: true}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	result := DeliveryResult{StatusCode: resp.StatusCode, ResponseBody: string(body)}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Success = true
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		result.Error = fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		result.ShouldRetry = resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests
	default:
		result.Error = fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		result.ShouldRetry = true
	}
	return result
}

// calculateBackoff returns initial * 2^(attempt-1), capped at MaxBackoff.
func calculateBackoff(initial time.Duration, attempt int64) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	backoff := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if backoff > MaxBackoff {
		backoff = MaxBackoff
	}
	return backoff
}
