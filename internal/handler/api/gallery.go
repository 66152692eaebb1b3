// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// GalleryRequest is the body of gallery create and update. Image is a
// base64 data URI or a URL.
type GalleryRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Image        *string `json:"image"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (req GalleryRequest) input() service.GalleryInput {
	return service.GalleryInput{
		Title:        req.Title,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
}

// ListGallery handles GET /gallery.
func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	h.listGallery(w, r, true)
}

// ListAdminGallery handles GET /gallery/admin.
func (h *Handler) ListAdminGallery(w http.ResponseWriter, r *http.Request) {
	h.listGallery(w, r, false)
}

func (h *Handler) listGallery(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	items, err := h.svc.Gallery.List(r.Context(), r.URL.Query().Get("category"), activeOnly)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, items)
}

// CreateGalleryImage handles POST /gallery.
func (h *Handler) CreateGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req GalleryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	item, err := h.svc.Gallery.Create(r.Context(), req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Gallery image created", item)
}

// UpdateGalleryImage handles PUT /gallery/{id}.
func (h *Handler) UpdateGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "gallery image")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req GalleryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	item, err := h.svc.Gallery.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Gallery image updated", item)
}

// DeleteGalleryImage handles DELETE /gallery/{id}.
func (h *Handler) DeleteGalleryImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "gallery image")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Gallery.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Gallery image deleted", nil)
}
