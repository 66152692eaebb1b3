// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// Project statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCompleted = "completed"
)

// Listing sort orders.
const (
	SortNewest     = "newest"
	SortOldest     = "oldest"
	SortMostViewed = "most-viewed"
)

// RelatedProjectsLimit is the number of related projects on a detail read.
const RelatedProjectsLimit = 3

// ProjectQuery filters a project listing.
type ProjectQuery struct {
	Page
	CategorySlug string
	Sort         string
	FeaturedOnly bool
	Status       string // admin only
	Search       string // admin only
}

// ToolInput names one tool used on a project.
type ToolInput struct {
	Name     string
	Category string
}

// ProjectInput carries a project create or partial update. Nil fields are
// left unchanged on update and take defaults on create.
type ProjectInput struct {
	Title          *string
	Slug           *string
	Description    *string
	CategoryID     *int64 // 0 clears the category
	ClientName     *string
	ClientIndustry *string
	CompletionDate *time.Time
	ProjectURL     *string
	FeaturedImage  *string // data URI or URL; "" clears
	IsFeatured     *bool
	IsPublished    *bool
	Status         *string
	SeoTitle       *string
	SeoDescription *string
	SeoKeywords    *string
	Tools          *[]ToolInput // non-nil replaces the whole set
}

// ProjectImageInput carries a partial project image metadata update.
type ProjectImageInput struct {
	AltText      *string
	Title        *string
	Description  *string
	DisplayOrder *int64
}

// ProjectView is a project with its eagerly loaded tools.
type ProjectView struct {
	store.ProjectRow
	Tools []store.ProjectTool
}

// ProjectDetail is the single-item read of a project.
type ProjectDetail struct {
	ProjectView
	Images          []store.ProjectImage
	Related         []ProjectView
	DescriptionHTML string
}

// ProjectList is one page of projects.
type ProjectList struct {
	Items      []ProjectView
	Pagination Pagination
}

// ProjectService manages projects, their tools and their gallery images.
type ProjectService struct {
	clock
	db        *sql.DB
	queries   *store.Queries
	processor *imaging.Processor
	bus       events.Bus
	logger    *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *sql.DB, processor *imaging.Processor, bus events.Bus, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		clock:     newClock(),
		db:        db,
		queries:   store.New(db),
		processor: processor,
		bus:       bus,
		logger:    logger,
	}
}

// ListPublic lists published projects.
func (s *ProjectService) ListPublic(ctx context.Context, q ProjectQuery) (*ProjectList, error) {
	q.Status, q.Search = "", ""
	return s.list(ctx, q, true)
}

// PublishedSlugs returns every published project slug, newest change first.
func (s *ProjectService) PublishedSlugs(ctx context.Context) ([]store.SlugStamp, error) {
	slugs, err := s.queries.ListPublishedProjectSlugs(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return slugs, nil
}

// ListAdmin lists all live projects, unpublished included.
func (s *ProjectService) ListAdmin(ctx context.Context, q ProjectQuery) (*ProjectList, error) {
	if q.Status != "" && !validStatus(q.Status) {
		return nil, apperr.Validation("status must be draft, published or completed")
	}
	return s.list(ctx, q, false)
}

func (s *ProjectService) list(ctx context.Context, q ProjectQuery, publishedOnly bool) (*ProjectList, error) {
	page, err := q.Page.Normalize()
	if err != nil {
		return nil, err
	}
	switch q.Sort {
	case "":
		q.Sort = SortNewest
	case SortNewest, SortOldest, SortMostViewed:
	default:
		return nil, apperr.Validation("sort must be newest, oldest or most-viewed")
	}

	params := store.ListProjectsParams{
		PublishedOnly: publishedOnly,
		CategorySlug:  q.CategorySlug,
		FeaturedOnly:  q.FeaturedOnly,
		Status:        q.Status,
		Search:        strings.TrimSpace(q.Search),
		Sort:          q.Sort,
		Limit:         int64(page.Limit),
		Offset:        page.Offset(),
	}

	rows, err := s.queries.ListProjects(ctx, params)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("listing projects: %w", err))
	}
	total, err := s.queries.CountProjects(ctx, params)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("counting projects: %w", err))
	}

	items, err := s.withTools(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &ProjectList{Items: items, Pagination: newPagination(page, total)}, nil
}

// GetPublic returns a published project by slug and counts the view.
func (s *ProjectService) GetPublic(ctx context.Context, slug string) (*ProjectDetail, error) {
	row, err := s.queries.GetPublishedProjectBySlug(ctx, slug)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}

	views, err := s.queries.IncrementProjectViewCount(ctx, row.ID)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}
	row.ViewCount = views

	return s.detail(ctx, row)
}

// GetAdmin returns any live project by id without counting a view.
func (s *ProjectService) GetAdmin(ctx context.Context, id int64) (*ProjectDetail, error) {
	row, err := s.queries.GetProjectByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}
	return s.detail(ctx, row)
}

func (s *ProjectService) detail(ctx context.Context, row store.ProjectRow) (*ProjectDetail, error) {
	tools, err := s.queries.ListProjectTools(ctx, row.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	images, err := s.queries.ListProjectImages(ctx, row.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	related := []ProjectView{}
	if row.CategoryID.Valid {
		rows, err := s.queries.ListRelatedProjects(ctx, store.ListRelatedProjectsParams{
			CategoryID: row.CategoryID.Int64,
			ExcludeID:  row.ID,
			Limit:      RelatedProjectsLimit,
		})
		if err != nil {
			return nil, apperr.Internal(err)
		}
		related, err = s.withTools(ctx, rows)
		if err != nil {
			return nil, err
		}
	}

	return &ProjectDetail{
		ProjectView:     ProjectView{ProjectRow: row, Tools: tools},
		Images:          images,
		Related:         related,
		DescriptionHTML: renderMarkdown(row.Description),
	}, nil
}

func (s *ProjectService) withTools(ctx context.Context, rows []store.ProjectRow) ([]ProjectView, error) {
	items := make([]ProjectView, 0, len(rows))
	for _, r := range rows {
		tools, err := s.queries.ListProjectTools(ctx, r.ID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		items = append(items, ProjectView{ProjectRow: r, Tools: tools})
	}
	return items, nil
}

// Create inserts a project. The slug is derived from the title unless given.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*ProjectDetail, error) {
	title, err := trimmed(str(in.Title, ""), "title")
	if err != nil {
		return nil, err
	}
	slug, err := resolveSlug(ctx, s.queries.ProjectSlugExists, in.Slug, title, 0, "Project")
	if err != nil {
		return nil, err
	}
	status, published, err := resolvePublication(in.Status, in.IsPublished, StatusPublished)
	if err != nil {
		return nil, err
	}
	featured, err := s.featuredImage(in.FeaturedImage, sql.NullString{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	var created store.Project
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		p, err := q.CreateProject(ctx, store.CreateProjectParams{
			Title:          title,
			Slug:           slug,
			Description:    str(in.Description, ""),
			CategoryID:     optionalID(in.CategoryID, sql.NullInt64{}),
			ClientName:     str(in.ClientName, ""),
			ClientIndustry: str(in.ClientIndustry, ""),
			CompletionDate: util.NullTimeFromPtr(in.CompletionDate),
			ProjectUrl:     str(in.ProjectURL, ""),
			FeaturedImage:  featured,
			IsFeatured:     boolOr(in.IsFeatured, false),
			IsPublished:    published,
			Status:         status,
			SeoTitle:       str(in.SeoTitle, ""),
			SeoDescription: str(in.SeoDescription, ""),
			SeoKeywords:    str(in.SeoKeywords, ""),
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			return writeErr(err, "Project")
		}
		created = p
		if in.Tools != nil {
			return replaceTools(ctx, q, p.ID, *in.Tools, now)
		}
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	s.logger.Info("project created", "project_id", created.ID, "slug", created.Slug)
	s.publish(ctx, events.ProjectCreated, created)
	return s.GetAdmin(ctx, created.ID)
}

// Update merges a partial update into a project. A title change recomputes
// the slug unless a slug is given explicitly.
func (s *ProjectService) Update(ctx context.Context, id int64, in ProjectInput) (*ProjectDetail, error) {
	current, err := s.queries.GetProjectByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Project")
	}

	title := current.Title
	if in.Title != nil {
		if title, err = trimmed(*in.Title, "title"); err != nil {
			return nil, err
		}
	}

	slug := current.Slug
	if in.Slug != nil || title != current.Title {
		if slug, err = resolveSlug(ctx, s.queries.ProjectSlugExists, in.Slug, title, id, "Project"); err != nil {
			return nil, err
		}
	}

	status, published, err := resolvePublication(in.Status, in.IsPublished, current.Status)
	if err != nil {
		return nil, err
	}
	featured, err := s.featuredImage(in.FeaturedImage, current.FeaturedImage)
	if err != nil {
		return nil, err
	}

	completion := current.CompletionDate
	if in.CompletionDate != nil {
		completion = util.NullTimeFromPtr(in.CompletionDate)
	}

	now := s.now()
	var updated store.Project
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		p, err := q.UpdateProject(ctx, store.UpdateProjectParams{
			Title:          title,
			Slug:           slug,
			Description:    str(in.Description, current.Description),
			CategoryID:     optionalID(in.CategoryID, current.CategoryID),
			ClientName:     str(in.ClientName, current.ClientName),
			ClientIndustry: str(in.ClientIndustry, current.ClientIndustry),
			CompletionDate: completion,
			ProjectUrl:     str(in.ProjectURL, current.ProjectUrl),
			FeaturedImage:  featured,
			IsFeatured:     boolOr(in.IsFeatured, current.IsFeatured),
			IsPublished:    published,
			Status:         status,
			SeoTitle:       str(in.SeoTitle, current.SeoTitle),
			SeoDescription: str(in.SeoDescription, current.SeoDescription),
			SeoKeywords:    str(in.SeoKeywords, current.SeoKeywords),
			UpdatedAt:      now,
			ID:             id,
		})
		if err != nil {
			return writeErr(err, "Project")
		}
		updated = p
		if in.Tools != nil {
			return replaceTools(ctx, q, id, *in.Tools, now)
		}
		return nil
	})
	if err != nil {
		return nil, txErr(err)
	}

	s.publish(ctx, events.ProjectUpdated, updated)
	return s.GetAdmin(ctx, id)
}

// Delete soft-deletes a project. Public reads stop returning it at once.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	now := s.now()
	n, err := s.queries.SoftDeleteProject(ctx, store.SoftDeleteProjectParams{
		DeletedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
		ID:        id,
	})
	if err := deleteErr(n, err, "Project"); err != nil {
		return err
	}

	s.logger.Info("project deleted", "project_id", id)
	s.bus.Publish(ctx, events.NewEvent(events.ProjectDeleted, events.EntityData{Entity: "project", ID: id}))
	return nil
}

// UpdateImage changes the metadata of one project image.
func (s *ProjectService) UpdateImage(ctx context.Context, projectID, imageID int64, in ProjectImageInput) (store.ProjectImage, error) {
	current, err := s.queries.GetProjectImage(ctx, projectID, imageID)
	if err != nil {
		return store.ProjectImage{}, lookupErr(err, "Project image")
	}
	img, err := s.queries.UpdateProjectImage(ctx, store.UpdateProjectImageParams{
		AltText:      str(in.AltText, current.AltText),
		Title:        str(in.Title, current.Title),
		Description:  str(in.Description, current.Description),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		UpdatedAt:    s.now(),
		ProjectID:    projectID,
		ID:           imageID,
	})
	if err != nil {
		return store.ProjectImage{}, writeErr(err, "Project image")
	}
	return img, nil
}

// DeleteImage removes one project image.
func (s *ProjectService) DeleteImage(ctx context.Context, projectID, imageID int64) error {
	n, err := s.queries.DeleteProjectImage(ctx, projectID, imageID)
	return deleteErr(n, err, "Project image")
}

// featuredImage validates a featured image value; "" clears it.
func (s *ProjectService) featuredImage(in *string, current sql.NullString) (sql.NullString, error) {
	if in == nil {
		return current, nil
	}
	img, err := inlineImage(s.processor, *in, "featured_image")
	if err != nil || img.Value == "" {
		return sql.NullString{}, err
	}
	return sql.NullString{String: img.Value, Valid: true}, nil
}

func (s *ProjectService) publish(ctx context.Context, eventType string, p store.Project) {
	s.bus.Publish(ctx, events.NewEvent(eventType, events.ProjectEventData{
		ID:     p.ID,
		Title:  p.Title,
		Slug:   p.Slug,
		Status: p.Status,
	}))
}

func replaceTools(ctx context.Context, q *store.Queries, projectID int64, tools []ToolInput, now time.Time) error {
	if err := q.DeleteProjectTools(ctx, projectID); err != nil {
		return apperr.Internal(err)
	}
	for _, t := range tools {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return apperr.Validation("tool name is required")
		}
		if _, err := q.CreateProjectTool(ctx, store.CreateProjectToolParams{
			ProjectID:    projectID,
			ToolName:     name,
			ToolCategory: strings.TrimSpace(t.Category),
			CreatedAt:    now,
		}); err != nil {
			return apperr.Internal(err)
		}
	}
	return nil
}

// resolvePublication keeps is_published and status in step.
// A status decides is_published. Without a status, is_published=true
// publishes and is_published=false demotes a published project to draft.
// Contradicting values are rejected.
func resolvePublication(status *string, isPublished *bool, current string) (string, bool, error) {
	switch {
	case status != nil:
		st := strings.TrimSpace(*status)
		if !validStatus(st) {
			return "", false, apperr.Validation("status must be draft, published or completed")
		}
		published := st == StatusPublished
		if isPublished != nil && *isPublished != published {
			return "", false, apperr.Validation("is_published must match status")
		}
		return st, published, nil
	case isPublished != nil:
		if *isPublished {
			return StatusPublished, true, nil
		}
		if current == StatusPublished {
			return StatusDraft, false, nil
		}
		return current, false, nil
	default:
		return current, current == StatusPublished, nil
	}
}

func validStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusCompleted
}

// imageErr classifies image validation failures.
func imageErr(err error) error {
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return apperr.Wrap(apperr.KindPayloadTooLarge,
			fmt.Sprintf("Image exceeds the %d MiB limit", imaging.MaxImageSize>>20), err)
	case errors.Is(err, imaging.ErrUnsupportedType):
		return apperr.Wrap(apperr.KindUnsupportedMediaType,
			"Only JPEG, PNG, GIF and WebP images are allowed", err)
	case errors.Is(err, imaging.ErrInvalidDataURI):
		return apperr.Wrap(apperr.KindValidation, "Image must be a base64 data URI", err)
	default:
		return apperr.Internal(err)
	}
}
