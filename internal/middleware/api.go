// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, request limits and the JSON response envelope.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/olegiv/portfolio-api/internal/apperr"
)

// SuccessResponse is the envelope of every successful API response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data"`
}

// ErrorResponse is the envelope of every failed API response.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     apperr.Kind `json:"error"`
	Message   string      `json:"message"`
	Data      any         `json:"data,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, SuccessResponse{Success: true, Message: message, Data: data})
}

// WriteAPIError translates err into an error envelope. Unclassified errors
// become INTERNAL_ERROR with a generic message; the cause is logged under
// the request id, which the client receives as X-Request-ID.
func WriteAPIError(w http.ResponseWriter, r *http.Request, err error) {
	WriteAPIErrorData(w, r, err, nil)
}

// WriteAPIErrorData is WriteAPIError with a data payload, used when a
// failed request still has per-item results to report.
func WriteAPIErrorData(w http.ResponseWriter, r *http.Request, err error, data any) {
	kind := apperr.KindOf(err)
	message := "An internal error occurred"
	if e, ok := apperr.As(err); ok && kind != apperr.KindInternal {
		message = e.Message
	}

	reqID := chimw.GetReqID(r.Context())
	status := kind.Status()
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"category", "system", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		slog.DebugContext(r.Context(), "request rejected",
			"method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}

	resp := ErrorResponse{Success: false, Error: kind, Message: message, Data: data}
	if kind == apperr.KindInternal {
		resp.RequestID = reqID
	}
	WriteJSON(w, status, resp)
}

// maxLimiterEntries bounds a limiter cache; past it the cache is reset.
const maxLimiterEntries = 10000

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	maxSize  int
}

// newLimiterCache creates a new limiter cache.
func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		maxSize:  maxLimiterEntries,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}
	if len(lc.limiters) >= lc.maxSize {
		lc.limiters = make(map[K]*rate.Limiter)
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// len returns the number of tracked keys.
func (lc *limiterCache[K]) len() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}
