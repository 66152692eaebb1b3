// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"time"

	"github.com/olegiv/portfolio-api/internal/seo"
	"github.com/olegiv/portfolio-api/internal/service"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	Role           string     `json:"role"`
	ProfilePicture *string    `json:"profile_picture"`
	AboutMe        string     `json:"about_me"`
	WhatICanDo     string     `json:"what_i_can_do"`
	LastLogin      *time.Time `json:"last_login"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func userResponse(u store.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role,
		ProfilePicture: util.StringPtr(u.ProfilePicture),
		AboutMe:        u.AboutMe,
		WhatICanDo:     u.WhatICanDo,
		LastLogin:      util.TimePtr(u.LastLogin),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// PublicProfileResponse is the site owner's public bio.
type PublicProfileResponse struct {
	FullName       string  `json:"full_name"`
	ProfilePicture *string `json:"profile_picture"`
	AboutMe        string  `json:"about_me"`
	WhatICanDo     string  `json:"what_i_can_do"`
}

// CategoryRef is the category summary embedded in projects.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ToolResponse represents a project tool.
type ToolResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"tool_name"`
	Category string `json:"tool_category"`
}

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	CategoryID     *int64         `json:"category_id"`
	Category       *CategoryRef   `json:"category"`
	ClientName     string         `json:"client_name"`
	ClientIndustry string         `json:"client_industry"`
	CompletionDate *time.Time     `json:"completion_date"`
	ProjectURL     string         `json:"project_url"`
	FeaturedImage  *string        `json:"featured_image"`
	ViewCount      int64          `json:"view_count"`
	IsFeatured     bool           `json:"is_featured"`
	IsPublished    bool           `json:"is_published"`
	Status         string         `json:"status"`
	SeoTitle       string         `json:"seo_title"`
	SeoDescription string         `json:"seo_description"`
	SeoKeywords    string         `json:"seo_keywords"`
	Tools          []ToolResponse `json:"tools"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func projectRowResponse(row store.ProjectRow, tools []store.ProjectTool) ProjectResponse {
	p := row.Project
	resp := ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		CategoryID:     util.Int64Ptr(p.CategoryID),
		ClientName:     p.ClientName,
		ClientIndustry: p.ClientIndustry,
		CompletionDate: util.TimePtr(p.CompletionDate),
		ProjectURL:     p.ProjectUrl,
		FeaturedImage:  util.StringPtr(p.FeaturedImage),
		ViewCount:      p.ViewCount,
		IsFeatured:     p.IsFeatured,
		IsPublished:    p.IsPublished,
		Status:         p.Status,
		SeoTitle:       p.SeoTitle,
		SeoDescription: p.SeoDescription,
		SeoKeywords:    p.SeoKeywords,
		Tools:          mapSlice(tools, toolResponse),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.CategoryID.Valid && row.CategoryName.Valid {
		resp.Category = &CategoryRef{
			ID:   p.CategoryID.Int64,
			Name: row.CategoryName.String,
			Slug: row.CategorySlug.String,
		}
	}
	return resp
}

func projectViewResponse(v service.ProjectView) ProjectResponse {
	return projectRowResponse(v.ProjectRow, v.Tools)
}

func toolResponse(t store.ProjectTool) ToolResponse {
	return ToolResponse{ID: t.ID, Name: t.ToolName, Category: t.ToolCategory}
}

// ProjectDetailResponse is a single project with its gallery and related items.
type ProjectDetailResponse struct {
	ProjectResponse
	DescriptionHTML string               `json:"description_html"`
	Images          []store.ProjectImage `json:"images"`
	Related         []ProjectResponse    `json:"related"`
	SEO             *seo.Meta            `json:"seo,omitempty"`
}

func projectDetailResponse(d *service.ProjectDetail) ProjectDetailResponse {
	images := d.Images
	if images == nil {
		images = []store.ProjectImage{}
	}
	return ProjectDetailResponse{
		ProjectResponse: projectViewResponse(d.ProjectView),
		DescriptionHTML: d.DescriptionHTML,
		Images:          images,
		Related:         mapSlice(d.Related, projectViewResponse),
	}
}

// ServiceResponse represents an offered service with its packages.
type ServiceResponse struct {
	ID               int64             `json:"id"`
	Title            string            `json:"title"`
	Slug             string            `json:"slug"`
	ShortDescription string            `json:"short_description"`
	Description      string            `json:"description"`
	Icon             string            `json:"icon"`
	Features         []string          `json:"features"`
	DisplayOrder     int64             `json:"display_order"`
	IsActive         bool              `json:"is_active"`
	Packages         []PackageResponse `json:"packages"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// PackageResponse represents a service package.
type PackageResponse struct {
	ID           int64     `json:"id"`
	ServiceID    int64     `json:"service_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	DeliveryDays int64     `json:"delivery_days"`
	Revisions    int64     `json:"revisions"`
	Deliverables []string  `json:"deliverables"`
	IsPopular    bool      `json:"is_popular"`
	DisplayOrder int64     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func serviceResponse(v service.ServiceView) ServiceResponse {
	features := v.Features
	if features == nil {
		features = []string{}
	}
	return ServiceResponse{
		ID:               v.ID,
		Title:            v.Title,
		Slug:             v.Slug,
		ShortDescription: v.ShortDescription,
		Description:      v.Service.Description,
		Icon:             v.Icon,
		Features:         features,
		DisplayOrder:     v.DisplayOrder,
		IsActive:         v.IsActive,
		Packages:         mapSlice(v.Packages, packageResponse),
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func packageResponse(v service.PackageView) PackageResponse {
	deliverables := v.Deliverables
	if deliverables == nil {
		deliverables = []string{}
	}
	return PackageResponse{
		ID:           v.ID,
		ServiceID:    v.ServiceID,
		Name:         v.Name,
		Description:  v.ServicePackage.Description,
		PriceCents:   v.PriceCents,
		Currency:     v.Currency,
		DeliveryDays: v.DeliveryDays,
		Revisions:    v.Revisions,
		Deliverables: deliverables,
		IsPopular:    v.IsPopular,
		DisplayOrder: v.DisplayOrder,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ContactResponse represents a contact submission for moderation.
type ContactResponse struct {
	ID                int64      `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Phone             *string    `json:"phone"`
	Company           *string    `json:"company"`
	ProjectType       string     `json:"project_type"`
	BudgetRange       *string    `json:"budget_range"`
	Message           string     `json:"message"`
	PreferredTimeline *string    `json:"preferred_timeline"`
	IPAddress         string     `json:"ip_address"`
	Country           string     `json:"country"`
	UserAgent         string     `json:"user_agent"`
	Status            string     `json:"status"`
	AdminNotes        string     `json:"admin_notes"`
	RespondedAt       *time.Time `json:"responded_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func contactResponse(c store.ContactSubmission) ContactResponse {
	return ContactResponse{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             util.StringPtr(c.Phone),
		Company:           util.StringPtr(c.Company),
		ProjectType:       c.ProjectType,
		BudgetRange:       util.StringPtr(c.BudgetRange),
		Message:           c.Message,
		PreferredTimeline: util.StringPtr(c.PreferredTimeline),
		IPAddress:         c.IpAddress,
		Country:           c.Country,
		UserAgent:         c.UserAgent,
		Status:            c.Status,
		AdminNotes:        c.AdminNotes,
		RespondedAt:       util.TimePtr(c.RespondedAt),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// TestimonialResponse represents a client testimonial.
type TestimonialResponse struct {
	ID           int64     `json:"id"`
	ClientName   string    `json:"client_name"`
	ClientTitle  string    `json:"client_title"`
	Company      string    `json:"company"`
	Content      string    `json:"content"`
	Rating       int64     `json:"rating"`
	Avatar       *string   `json:"avatar"`
	ProjectID    *int64    `json:"project_id"`
	IsFeatured   bool      `json:"is_featured"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int64     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func testimonialResponse(t store.Testimonial) TestimonialResponse {
	return TestimonialResponse{
		ID:           t.ID,
		ClientName:   t.ClientName,
		ClientTitle:  t.ClientTitle,
		Company:      t.Company,
		Content:      t.Content,
		Rating:       t.Rating,
		Avatar:       util.StringPtr(t.Avatar),
		ProjectID:    util.Int64Ptr(t.ProjectID),
		IsFeatured:   t.IsFeatured,
		IsActive:     t.IsActive,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ImageResponse represents an image registry record. DataURI is only
// filled for single-record responses.
type ImageResponse struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	Width        int64     `json:"width"`
	Height       int64     `json:"height"`
	URL          string    `json:"url,omitempty"`
	OwnerKind    string    `json:"owner_kind"`
	OwnerID      *int64    `json:"owner_id"`
	UploadedBy   *int64    `json:"uploaded_by"`
	DataURI      string    `json:"data_uri,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func imageResponse(img store.Image) ImageResponse {
	resp := ImageResponse{
		ID:           img.ID,
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		MimeType:     img.MimeType,
		FileSize:     img.FileSize,
		Width:        img.Width,
		Height:       img.Height,
		OwnerKind:    img.OwnerKind,
		OwnerID:      util.Int64Ptr(img.OwnerID),
		UploadedBy:   util.Int64Ptr(img.UploadedBy),
		CreatedAt:    img.CreatedAt,
	}
	if img.Path != "" {
		resp.URL = service.UploadsURLPrefix + img.Path
	}
	return resp
}

func imageDetailResponse(img store.Image) ImageResponse {
	resp := imageResponse(img)
	resp.DataURI = img.Data
	return resp
}

// UploadResponse is the result of a single ingest.
type UploadResponse struct {
	Image        ImageResponse       `json:"image"`
	ProjectImage *store.ProjectImage `json:"project_image,omitempty"`
}

func uploadResponse(res *service.IngestResult) UploadResponse {
	img := imageDetailResponse(res.Image)
	if res.URL != "" {
		img.URL = res.URL
	}
	return UploadResponse{Image: img, ProjectImage: res.ProjectImage}
}

// OutcomeResponse is the per-file result of a batch upload.
type OutcomeResponse struct {
	Filename     string              `json:"filename"`
	Success      bool                `json:"success"`
	Image        *ImageResponse      `json:"image,omitempty"`
	ProjectImage *store.ProjectImage `json:"project_image,omitempty"`
	Error        string              `json:"error,omitempty"`
	Message      string              `json:"message,omitempty"`
}
