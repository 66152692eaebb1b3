// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
	"github.com/olegiv/portfolio-api/internal/util"
)

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name              string `json:"name" validate:"required,max=100"`
	Email             string `json:"email" validate:"required,email,max=254"`
	Phone             string `json:"phone" validate:"max=50"`
	Company           string `json:"company" validate:"max=200"`
	ProjectType       string `json:"project_type" validate:"required,max=100"`
	BudgetRange       string `json:"budget_range" validate:"max=100"`
	Message           string `json:"message" validate:"required"`
	PreferredTimeline string `json:"preferred_timeline" validate:"max=100"`
	CaptchaToken      string `json:"captcha_token" validate:"max=4096"`
}

// ContactStatusRequest moderates a submission.
type ContactStatusRequest struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=10000"`
}

// ContactCreatedResponse is all a public submitter gets back.
type ContactCreatedResponse struct {
	SubmissionID int64 `json:"submission_id"`
}

// CreateContact handles POST /contact.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	ip := util.ClientIP(r, h.trustProxy)
	if h.svc.Captcha != nil {
		if err := h.svc.Captcha.Verify(r.Context(), req.CaptchaToken, ip); err != nil {
			middleware.WriteAPIError(w, r, err)
			return
		}
	}

	c, err := h.svc.Contacts.Create(r.Context(), service.ContactInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		ProjectType:       req.ProjectType,
		BudgetRange:       req.BudgetRange,
		Message:           req.Message,
		PreferredTimeline: req.PreferredTimeline,
		IPAddress:         ip,
		UserAgent:         r.UserAgent(),
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Thank you for your message. We will get back to you soon.",
		ContactCreatedResponse{SubmissionID: c.ID})
}

// ListContacts handles GET /contact.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	list, err := h.svc.Contacts.List(r.Context(), r.URL.Query().Get("status"), page)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, ListResponse[ContactResponse]{
		Items:      mapSlice(list.Items, contactResponse),
		Pagination: list.Pagination,
	})
}

// GetContact handles GET /contact/{id}.
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "contact submission")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	c, err := h.svc.Contacts.Get(r.Context(), id)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, contactResponse(c))
}

// UpdateContact handles PUT /contact/{id}.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "contact submission")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req ContactStatusRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	c, err := h.svc.Contacts.UpdateStatus(r.Context(), id, service.ContactStatusInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Contact submission updated", contactResponse(c))
}

// DeleteContact handles DELETE /contact/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "contact submission")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Contacts.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Contact submission deleted", nil)
}
