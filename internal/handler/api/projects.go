// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-api/internal/analytics"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
	"github.com/olegiv/portfolio-api/internal/util"
)

// ToolRequest is a project tool. It accepts either a bare name or an
// object with name and category.
type ToolRequest struct {
	Name     string `json:"tool_name" validate:"required,max=100"`
	Category string `json:"tool_category" validate:"max=100"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *ToolRequest) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		t.Name = name
		return nil
	}
	var obj struct {
		ToolName     string `json:"tool_name"`
		ToolCategory string `json:"tool_category"`
		Name         string `json:"name"`
		Category     string `json:"category"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	t.Name = firstNonEmpty(obj.ToolName, obj.Name)
	t.Category = firstNonEmpty(obj.ToolCategory, obj.Category)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Date accepts "2006-01-02" or RFC 3339 timestamps.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return errors.New("invalid date")
}

// ProjectRequest is the body of project create and update.
type ProjectRequest struct {
	Title          *string        `json:"title" validate:"omitempty,max=200"`
	Slug           *string        `json:"slug" validate:"omitempty,max=200"`
	Description    *string        `json:"description" validate:"omitempty,max=50000"`
	CategoryID     *int64         `json:"category_id" validate:"omitempty,gte=0"`
	ClientName     *string        `json:"client_name" validate:"omitempty,max=200"`
	ClientIndustry *string        `json:"client_industry" validate:"omitempty,max=200"`
	CompletionDate *Date          `json:"completion_date"`
	ProjectURL     *string        `json:"project_url" validate:"omitempty,max=2048"`
	FeaturedImage  *string        `json:"featured_image"`
	IsFeatured     *bool          `json:"is_featured"`
	IsPublished    *bool          `json:"is_published"`
	Status         *string        `json:"status" validate:"omitempty,max=20"`
	SeoTitle       *string        `json:"seo_title" validate:"omitempty,max=200"`
	SeoDescription *string        `json:"seo_description" validate:"omitempty,max=500"`
	SeoKeywords    *string        `json:"seo_keywords" validate:"omitempty,max=500"`
	Tools          *[]ToolRequest `json:"tools" validate:"omitempty,max=50,dive"`
}

func (req ProjectRequest) input() service.ProjectInput {
	in := service.ProjectInput{
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		ClientName:     req.ClientName,
		ClientIndustry: req.ClientIndustry,
		ProjectURL:     req.ProjectURL,
		FeaturedImage:  req.FeaturedImage,
		IsFeatured:     req.IsFeatured,
		IsPublished:    req.IsPublished,
		Status:         req.Status,
		SeoTitle:       req.SeoTitle,
		SeoDescription: req.SeoDescription,
		SeoKeywords:    req.SeoKeywords,
	}
	if req.CompletionDate != nil {
		t := req.CompletionDate.Time
		in.CompletionDate = &t
	}
	if req.Tools != nil {
		tools := mapSlice(*req.Tools, func(t ToolRequest) service.ToolInput {
			return service.ToolInput{Name: t.Name, Category: t.Category}
		})
		in.Tools = &tools
	}
	return in
}

// CreateProjectRequest requires a title.
type CreateProjectRequest struct {
	ProjectRequest
	Title *string `json:"title" validate:"required,min=1,max=200"`
}

// ProjectImageRequest updates gallery image metadata.
type ProjectImageRequest struct {
	AltText      *string `json:"alt_text" validate:"omitempty,max=500"`
	Title        *string `json:"title" validate:"omitempty,max=200"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	DisplayOrder *int64  `json:"display_order" validate:"omitempty,gte=0"`
}

func projectQuery(r *http.Request) (service.ProjectQuery, error) {
	page, err := pageParams(r)
	if err != nil {
		return service.ProjectQuery{}, err
	}
	q := r.URL.Query()
	return service.ProjectQuery{
		Page:         page,
		CategorySlug: q.Get("category"),
		Sort:         q.Get("sort"),
		FeaturedOnly: boolQuery(r, "featured") || boolQuery(r, "featured_only"),
		Status:       q.Get("status"),
		Search:       strings.TrimSpace(q.Get("search")),
	}, nil
}

// ListProjects handles GET /projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q, err := projectQuery(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	list, err := h.svc.Projects.ListPublic(r.Context(), q)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, ListResponse[ProjectResponse]{
		Items:      mapSlice(list.Items, projectViewResponse),
		Pagination: list.Pagination,
	})
}

// GetProject handles GET /projects/{slug}. Each read counts as a view.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	detail, err := h.svc.Projects.GetPublic(r.Context(), slug)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	if h.svc.Analytics != nil {
		h.svc.Analytics.Track(analytics.Hit{
			Kind:      analytics.HitProject,
			Path:      r.URL.Path,
			IP:        util.ClientIP(r, h.trustProxy),
			UserAgent: r.UserAgent(),
		})
	}
	resp := projectDetailResponse(detail)
	meta := h.projectMeta(r.Context(), detail)
	resp.SEO = &meta
	writeOK(w, resp)
}

// ListAdminProjects handles GET /projects/admin/all.
func (h *Handler) ListAdminProjects(w http.ResponseWriter, r *http.Request) {
	q, err := projectQuery(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	list, err := h.svc.Projects.ListAdmin(r.Context(), q)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, ListResponse[ProjectResponse]{
		Items:      mapSlice(list.Items, projectViewResponse),
		Pagination: list.Pagination,
	})
}

// GetAdminProject handles GET /projects/admin/{id}.
func (h *Handler) GetAdminProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "project")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	detail, err := h.svc.Projects.GetAdmin(r.Context(), id)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, projectDetailResponse(detail))
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	in := req.ProjectRequest.input()
	in.Title = req.Title

	detail, err := h.svc.Projects.Create(r.Context(), in)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeCreated(w, "Project created", projectDetailResponse(detail))
}

// UpdateProject handles PUT /projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "project")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req ProjectRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	detail, err := h.svc.Projects.Update(r.Context(), id, req.input())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Project updated", projectDetailResponse(detail))
}

// DeleteProject handles DELETE /projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "project")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Projects.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Project deleted", nil)
}

// UpdateProjectImage handles PUT /projects/{id}/images/{imageID}.
func (h *Handler) UpdateProjectImage(w http.ResponseWriter, r *http.Request) {
	projectID, imageID, err := projectImageIDs(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	var req ProjectImageRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	img, err := h.svc.Projects.UpdateImage(r.Context(), projectID, imageID, service.ProjectImageInput{
		AltText:      req.AltText,
		Title:        req.Title,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Project image updated", img)
}

// DeleteProjectImage handles DELETE /projects/{id}/images/{imageID}.
func (h *Handler) DeleteProjectImage(w http.ResponseWriter, r *http.Request) {
	projectID, imageID, err := projectImageIDs(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Projects.DeleteImage(r.Context(), projectID, imageID); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Project image deleted", nil)
}

func projectImageIDs(r *http.Request) (int64, int64, error) {
	projectID, err := idParam(r, "id", "project")
	if err != nil {
		return 0, 0, err
	}
	imageID, err := idParam(r, "imageID", "image")
	if err != nil {
		return 0, 0, err
	}
	return projectID, imageID, nil
}
