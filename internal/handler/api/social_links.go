// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// SocialLinkRequest is the body of social link create and update.
type SocialLinkRequest struct {
	Platform     *string `json:"platform" validate:"omitempty,min=1,max=50"`
	URL          *string `json:"url" validate:"omitempty,max=2048"`
	Icon         *string `json:"icon" validate:"omitempty,max=50"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (req SocialLinkRequest) input() service.SocialLinkInput {
	return service.SocialLinkInput{
		Platform:     req.Platform,
		URL:          req.URL,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
}

// ListSocialLinks handles GET /social-links.
func (h *Handler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.SocialLinks.List(r.Context(), true)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, links)
}

// ListAdminSocialLinks handles GET /social-links/admin.
func (h *Handler) ListAdminSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.SocialLinks.List(r.Context(), false)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, links)
}

// CreateSocialLink handles POST /social-links.
func (h *Handler) CreateSocialLink(w http.ResponseWriter, r *http.Request) {
	var req SocialLinkRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	link, err := h.svc.SocialLinks.Create(r.Context(), req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Social link created", link)
}

// UpdateSocialLink handles PUT /social-links/{id}.
func (h *Handler) UpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "social link")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req SocialLinkRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	link, err := h.svc.SocialLinks.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Social link updated", link)
}

// DeleteSocialLink handles DELETE /social-links/{id}.
func (h *Handler) DeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "social link")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.SocialLinks.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Social link deleted", nil)
}
