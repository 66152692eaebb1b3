// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// SettingRequest is the body of PUT /settings/{key}.
type SettingRequest struct {
	Value       *string `json:"value" validate:"required,max=100000"`
	Category    *string `json:"category" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public"`
}

// PublicSettings handles GET /settings.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.Public(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, settings)
}

// ListSettings handles GET /settings/admin.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.List(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, settings)
}

// UpsertSetting handles PUT /settings/{key}.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	setting, err := h.svc.Settings.Upsert(r.Context(), chi.URLParam(r, "key"), service.SettingInput{
		Value:       *req.Value,
		Category:    req.Category,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Setting saved", setting)
}
