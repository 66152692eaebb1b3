// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type User struct {
	ID               int64          `json:"id"`
	Email            string         `json:"email"`
	PasswordHash     string         `json:"-"`
	FullName         string         `json:"full_name"`
	Role             string         `json:"role"`
	LastLogin        sql.NullTime   `json:"last_login"`
	LoginAttempts    int64          `json:"login_attempts"`
	LastFailedLogin  sql.NullTime   `json:"last_failed_login"`
	LockedUntil      sql.NullTime   `json:"locked_until"`
	ProfilePicture   sql.NullString `json:"profile_picture"`
	AboutMe          string         `json:"about_me"`
	WhatICanDo       string         `json:"what_i_can_do"`
	TwoFactorEnabled bool           `json:"two_factor_enabled"`
	TwoFactorSecret  sql.NullString `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type ProjectCategory struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	CategoryID     sql.NullInt64  `json:"category_id"`
	ClientName     string         `json:"client_name"`
	ClientIndustry string         `json:"client_industry"`
	CompletionDate sql.NullTime   `json:"completion_date"`
	ProjectUrl     string         `json:"project_url"`
	FeaturedImage  sql.NullString `json:"featured_image"`
	ViewCount      int64          `json:"view_count"`
	IsFeatured     bool           `json:"is_featured"`
	IsPublished    bool           `json:"is_published"`
	Status         string         `json:"status"`
	SeoTitle       string         `json:"seo_title"`
	SeoDescription string         `json:"seo_description"`
	SeoKeywords    string         `json:"seo_keywords"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      sql.NullTime   `json:"deleted_at"`
}

type ProjectImage struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	Image        string    `json:"image"`
	MimeType     string    `json:"mime_type"`
	AltText      string    `json:"alt_text"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DisplayOrder int64     `json:"display_order"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProjectTool struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project_id"`
	ToolName     string    `json:"tool_name"`
	ToolCategory string    `json:"tool_category"`
	CreatedAt    time.Time `json:"created_at"`
}

type Service struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Slug             string       `json:"slug"`
	ShortDescription string       `json:"short_description"`
	Description      string       `json:"description"`
	Icon             string       `json:"icon"`
	Features         string       `json:"features"`
	DisplayOrder     int64        `json:"display_order"`
	IsActive         bool         `json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	DeletedAt        sql.NullTime `json:"deleted_at"`
}

type ServicePackage struct {
	ID           int64     `json:"id"`
	ServiceID    int64     `json:"service_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	DeliveryDays int64     `json:"delivery_days"`
	Revisions    int64     `json:"revisions"`
	Deliverables string    `json:"deliverables"`
	IsPopular    bool      `json:"is_popular"`
	DisplayOrder int64     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ContactSubmission struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	Email             string         `json:"email"`
	Phone             sql.NullString `json:"phone"`
	Company           sql.NullString `json:"company"`
	ProjectType       string         `json:"project_type"`
	BudgetRange       sql.NullString `json:"budget_range"`
	Message           string         `json:"message"`
	PreferredTimeline sql.NullString `json:"preferred_timeline"`
	IpAddress         string         `json:"ip_address"`
	Country           string         `json:"country"`
	UserAgent         string         `json:"user_agent"`
	Status            string         `json:"status"`
	AdminNotes        string         `json:"admin_notes"`
	RespondedAt       sql.NullTime   `json:"responded_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type GalleryImage struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Image        string    `json:"image"`
	MimeType     string    `json:"mime_type"`
	FileSize     int64     `json:"file_size"`
	Category     string    `json:"category"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Testimonial struct {
	ID           int64          `json:"id"`
	ClientName   string         `json:"client_name"`
	ClientTitle  string         `json:"client_title"`
	Company      string         `json:"company"`
	Content      string         `json:"content"`
	Rating       int64          `json:"rating"`
	Avatar       sql.NullString `json:"avatar"`
	ProjectID    sql.NullInt64  `json:"project_id"`
	IsFeatured   bool           `json:"is_featured"`
	IsActive     bool           `json:"is_active"`
	DisplayOrder int64          `json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type SiteSetting struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SocialLink struct {
	ID           int64     `json:"id"`
	Platform     string    `json:"platform"`
	Url          string    `json:"url"`
	Icon         string    `json:"icon"`
	DisplayOrder int64     `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SiteAnalytic struct {
	ID                 int64     `json:"id"`
	Date               string    `json:"date"`
	PageViews          int64     `json:"page_views"`
	UniqueVisitors     int64     `json:"unique_visitors"`
	ProjectViews       int64     `json:"project_views"`
	ContactSubmissions int64     `json:"contact_submissions"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Image struct {
	ID           int64         `json:"id"`
	Filename     string        `json:"filename"`
	OriginalName string        `json:"original_name"`
	MimeType     string        `json:"mime_type"`
	FileSize     int64         `json:"file_size"`
	Width        int64         `json:"width"`
	Height       int64         `json:"height"`
	Data         string        `json:"-"`
	Path         string        `json:"path"`
	OwnerKind    string        `json:"owner_kind"`
	OwnerID      sql.NullInt64 `json:"owner_id"`
	UploadedBy   sql.NullInt64 `json:"uploaded_by"`
	CreatedAt    time.Time     `json:"created_at"`
}

type EventLog struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata"`
	RequestID string    `json:"request_id"`
	CreatedAt time.Time `json:"created_at"`
}
