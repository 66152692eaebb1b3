// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// CategoryRequest is the body of category create and update.
type CategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug         *string `json:"slug" validate:"omitempty,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
}

func (req CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	}
}

// ListCategories handles GET /projects/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories.List(r.Context(), true)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, categories)
}

// CreateCategory handles POST /projects/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	category, err := h.svc.Categories.Create(r.Context(), req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Category created", category)
}

// UpdateCategory handles PUT /projects/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "category")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req CategoryRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	category, err := h.svc.Categories.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Category updated", category)
}

// DeleteCategory handles DELETE /projects/categories/{id}.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "category")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Categories.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Category deleted", nil)
}
