// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// TestimonialRequest is the body of testimonial create and update.
type TestimonialRequest struct {
	ClientName   *string `json:"client_name" validate:"omitempty,min=1,max=100"`
	ClientTitle  *string `json:"client_title" validate:"omitempty,max=100"`
	Company      *string `json:"company" validate:"omitempty,max=200"`
	Content      *string `json:"content" validate:"omitempty,min=1,max=5000"`
	Rating       *int64  `json:"rating"`
	Avatar       *string `json:"avatar"`
	ProjectID    *int64  `json:"project_id" validate:"omitempty,gte=0"`
	IsFeatured   *bool   `json:"is_featured"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,gte=0"`
}

func (req TestimonialRequest) input() service.TestimonialInput {
	return service.TestimonialInput{
		ClientName:   req.ClientName,
		ClientTitle:  req.ClientTitle,
		Company:      req.Company,
		Content:      req.Content,
		Rating:       req.Rating,
		Avatar:       req.Avatar,
		ProjectID:    req.ProjectID,
		IsFeatured:   req.IsFeatured,
		IsActive:     req.IsActive,
		DisplayOrder: req.DisplayOrder,
	}
}

// ListTestimonials handles GET /testimonials.
func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Testimonials.List(r.Context(), true, boolQuery(r, "featured"))
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, mapSlice(items, testimonialResponse))
}

// ListAdminTestimonials handles GET /testimonials/admin.
func (h *Handler) ListAdminTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Testimonials.List(r.Context(), false, false)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, mapSlice(items, testimonialResponse))
}

// CreateTestimonial handles POST /testimonials.
func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var req TestimonialRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	t, err := h.svc.Testimonials.Create(r.Context(), req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Testimonial created", testimonialResponse(t))
}

// UpdateTestimonial handles PUT /testimonials/{id}.
func (h *Handler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "testimonial")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req TestimonialRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	t, err := h.svc.Testimonials.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Testimonial updated", testimonialResponse(t))
}

// DeleteTestimonial handles DELETE /testimonials/{id}.
func (h *Handler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "testimonial")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Testimonials.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Testimonial deleted", nil)
}
