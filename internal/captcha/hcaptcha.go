// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package captcha verifies human-check tokens submitted with public forms.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
)

const (
	// VerifyURL is the hCaptcha verification endpoint.
	VerifyURL = "https://api.hcaptcha.com/siteverify"

	verifyTimeout = 10 * time.Second
)

// Verifier checks a captcha token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// VerifyResponse represents the hCaptcha API response.
type VerifyResponse struct {
	Success     bool      `json:"success"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// HCaptcha verifies tokens against the hCaptcha API.
type HCaptcha struct {
	secret   string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewHCaptcha creates a verifier using secret.
func NewHCaptcha(secret string, logger *slog.Logger) *HCaptcha {
	return &HCaptcha{
		secret:   secret,
		endpoint: VerifyURL,
		client:   &http.Client{Timeout: verifyTimeout},
		logger:   logger,
	}
}

// WithEndpoint points the verifier at another server, for tests.
func (h *HCaptcha) WithEndpoint(endpoint string, client *http.Client) *HCaptcha {
	h.endpoint = endpoint
	h.client = client
	return h
}

// Verify returns a VALIDATION error for a missing or rejected token and an
// internal error when the API cannot be reached.
func (h *HCaptcha) Verify(ctx context.Context, token, remoteIP string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.Validation("captcha_token is required")
	}

	data := url.Values{}
	data.Set("secret", h.secret)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return apperr.Internal(fmt.Errorf("creating captcha request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := h.client.Do(req)
	if err != nil {
		return apperr.Internal(fmt.Errorf("captcha verification request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apperr.Internal(fmt.Errorf("captcha verification returned HTTP %d", resp.StatusCode))
	}

	var result VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return apperr.Internal(fmt.Errorf("parsing captcha response: %w", err))
	}
	if !result.Success {
		h.logger.Warn("captcha verification failed",
			"error_codes", result.ErrorCodes,
			"remote_ip", remoteIP)
		return apperr.Validation("Captcha verification failed")
	}
	return nil
}
