// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// ServiceRequest is the body of service create and update.
type ServiceRequest struct {
	Title            *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Slug             *string   `json:"slug" validate:"omitempty,max=200"`
	ShortDescription *string   `json:"short_description" validate:"omitempty,max=500"`
	Description      *string   `json:"description" validate:"omitempty,max=20000"`
	Icon             *string   `json:"icon" validate:"omitempty,max=100"`
	Features         *[]string `json:"features" validate:"omitempty,max=50,dive,max=300"`
	DisplayOrder     *int64    `json:"display_order" validate:"omitempty,gte=0"`
	IsActive         *bool     `json:"is_active"`
}

func (req ServiceRequest) input() service.ServiceInput {
	return service.ServiceInput{
		Title:            req.Title,
		Slug:             req.Slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Icon:             req.Icon,
		Features:         req.Features,
		DisplayOrder:     req.DisplayOrder,
		IsActive:         req.IsActive,
	}
}

// CreateServiceRequest requires a title.
type CreateServiceRequest struct {
	ServiceRequest
	Title *string `json:"title" validate:"required,min=1,max=200"`
}

// PackageRequest is the body of package create and update.
type PackageRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string   `json:"description" validate:"omitempty,max=5000"`
	PriceCents   *int64    `json:"price_cents" validate:"omitempty,gte=0"`
	Currency     *string   `json:"currency" validate:"omitempty,len=3"`
	DeliveryDays *int64    `json:"delivery_days" validate:"omitempty,gte=0"`
	Revisions    *int64    `json:"revisions" validate:"omitempty,gte=0"`
	Deliverables *[]string `json:"deliverables" validate:"omitempty,max=50,dive,max=300"`
	IsPopular    *bool     `json:"is_popular"`
	DisplayOrder *int64    `json:"display_order" validate:"omitempty,gte=0"`
}

func (req PackageRequest) input() service.PackageInput {
	return service.PackageInput{
		Name:         req.Name,
		Description:  req.Description,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		DeliveryDays: req.DeliveryDays,
		Revisions:    req.Revisions,
		Deliverables: req.Deliverables,
		IsPopular:    req.IsPopular,
		DisplayOrder: req.DisplayOrder,
	}
}

// CreatePackageRequest requires a name.
type CreatePackageRequest struct {
	PackageRequest
	Name *string `json:"name" validate:"required,min=1,max=100"`
}

// ListServices handles GET /services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.svc.Catalog.List(r.Context(), true)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, mapSlice(services, serviceResponse))
}

// GetService handles GET /services/{id}. The parameter may be an id or a slug.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.svc.Catalog.Get(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, serviceResponse(svc))
}

// CreateService handles POST /services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	in := req.ServiceRequest.input()
	in.Title = req.Title

	svc, err := h.svc.Catalog.Create(r.Context(), in)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Service created", serviceResponse(svc))
}

// UpdateService handles PUT /services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "service")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req ServiceRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	svc, err := h.svc.Catalog.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Service updated", serviceResponse(svc))
}

// DeleteService handles DELETE /services/{id}.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "service")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Catalog.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Service deleted", nil)
}

// ListPackages handles GET /services/{id}/packages.
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "service")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	packages, err := h.svc.Catalog.Packages(r.Context(), id)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, mapSlice(packages, packageResponse))
}

// CreatePackage handles POST /services/{id}/packages.
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	serviceID, err := idParam(r, "id", "service")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req CreatePackageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	in := req.PackageRequest.input()
	in.Name = req.Name

	pkg, err := h.svc.Catalog.CreatePackage(r.Context(), serviceID, in)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Package created", packageResponse(pkg))
}

// UpdatePackage handles PUT /services/{id}/packages/{packageID}.
func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	serviceID, packageID, err := packageIDs(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req PackageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	pkg, err := h.svc.Catalog.UpdatePackage(r.Context(), serviceID, packageID, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Package updated", packageResponse(pkg))
}

// DeletePackage handles DELETE /services/{id}/packages/{packageID}.
func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	serviceID, packageID, err := packageIDs(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeletePackage(r.Context(), serviceID, packageID); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Package deleted", nil)
}

func packageIDs(r *http.Request) (int64, int64, error) {
	serviceID, err := idParam(r, "id", "service")
	if err != nil {
		return 0, 0, err
	}
	packageID, err := idParam(r, "packageID", "package")
	if err != nil {
		return 0, 0, err
	}
	return serviceID, packageID, nil
}
