// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/util"
)

// RateLimitConfig configures a per-client-IP limiter.
type RateLimitConfig struct {
	// Name identifies the limiter in logs.
	Name string
	// RPS is the sustained request rate per IP.
	RPS float64
	// Burst is the maximum burst size per IP.
	Burst int
	// TrustProxy reads the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

// Per-endpoint defaults.
var (
	LoginRateLimit   = RateLimitConfig{Name: "login", RPS: 0.2, Burst: 10}
	ContactRateLimit = RateLimitConfig{Name: "contact", RPS: 1.0 / 60, Burst: 5}
	TrackRateLimit   = RateLimitConfig{Name: "analytics", RPS: 5, Burst: 30}
)

// IPRateLimiter throttles requests per client IP.
type IPRateLimiter struct {
	cfg   RateLimitConfig
	cache *limiterCache[string]
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	return &IPRateLimiter{cfg: cfg, cache: newLimiterCache[string](cfg.RPS, cfg.Burst)}
}

// Middleware rejects requests over the limit with 429 RATE_LIMITED.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := "60"
	if rl.cfg.RPS > 0 {
		retryAfter = strconv.Itoa(int(time.Duration(float64(time.Second)/rl.cfg.RPS).Seconds()) + 1)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := util.ClientIP(r, rl.cfg.TrustProxy)
		if !rl.cache.get(ip).Allow() {
			slog.Warn("rate limit exceeded", "category", "auth", "limiter", rl.cfg.Name, "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", retryAfter)
			WriteAPIError(w, r, apperr.New(apperr.KindRateLimited, "Too many requests. Please wait a moment and try again."))
			return
		}
		next.ServeHTTP(w, r)
	})
}
