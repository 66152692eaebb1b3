// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/olegiv/portfolio-api/internal/middleware"
)

// Health status values.
const (
	HealthOK       = "OK"
	HealthDegraded = "DEGRADED"
)

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Version     string            `json:"version,omitempty"`
	Uptime      string            `json:"uptime"`
	Checks      map[string]string `json:"checks"`
}

// Health handles GET /health. The body is not wrapped in the envelope.
// The status is 503 when the database is unreachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      HealthOK,
		Timestamp:   h.now().UTC(),
		Environment: h.env,
		Version:     h.version,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Checks:      map[string]string{},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("health check: database unreachable", "category", "system", "error", err)
		resp.Checks["database"] = "unavailable"
		resp.Status = HealthDegraded
	} else {
		resp.Checks["database"] = "ok"
	}

	if h.uploadsDir != "" {
		if info, err := os.Stat(h.uploadsDir); err != nil || !info.IsDir() {
			resp.Checks["uploads"] = "missing"
		} else {
			resp.Checks["uploads"] = "ok"
		}
	}

	status := http.StatusOK
	if resp.Status != HealthOK {
		status = http.StatusServiceUnavailable
	}
	middleware.WriteJSON(w, status, resp)
}
