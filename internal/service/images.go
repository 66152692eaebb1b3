// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// Image owner kinds. OwnerNone registers the image without attaching it.
const (
	OwnerNone            = ""
	OwnerUserProfile     = "user_profile"
	OwnerProjectFeatured = "project_featured"
	OwnerProjectGallery  = "project_gallery"
)

// UploadsURLPrefix is where mirrored files are served.
const UploadsURLPrefix = "/uploads/"

// Upload is one received file.
type Upload struct {
	Filename     string
	DeclaredType string
	Data         []byte
}

// IngestOptions says where an image goes.
type IngestOptions struct {
	OwnerKind   string
	OwnerID     *int64 // user_profile defaults to UploadedBy
	UploadedBy  int64
	AltText     string
	Title       string
	Description string
}

// IngestResult is an accepted image.
type IngestResult struct {
	Image        store.Image
	ProjectImage *store.ProjectImage // set for project_gallery
	URL          string              // mirrored file URL, empty when mirroring failed
}

// BatchOutcome is the per-file result of a batch upload.
type BatchOutcome struct {
	Filename string
	Result   *IngestResult
	Err      error
}

// Success reports whether the file was accepted.
func (o BatchOutcome) Success() bool {
	return o.Err == nil
}

// ImageService validates, stores and attaches uploaded images.
type ImageService struct {
	clock
	db        *sql.DB
	queries   *store.Queries
	processor *imaging.Processor
	bus       events.Bus
	logger    *slog.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(db *sql.DB, processor *imaging.Processor, bus events.Bus, logger *slog.Logger) *ImageService {
	return &ImageService{
		clock:     newClock(),
		db:        db,
		queries:   store.New(db),
		processor: processor,
		bus:       bus,
		logger:    logger,
	}
}

// MaxImageSize returns the per-image byte limit.
func (s *ImageService) MaxImageSize() int64 {
	return s.processor.MaxSize()
}

// Ingest validates one upload, records it and attaches it to its owner.
// The type is checked before the size. The registry row and the owner
// update commit together; the disk mirror is written afterwards and a
// failure there is only logged.
func (s *ImageService) Ingest(ctx context.Context, up Upload, opts IngestOptions) (*IngestResult, error) {
	ownerID, err := s.checkOwner(ctx, &opts)
	if err != nil {
		return nil, err
	}

	res, err := s.processor.Validate(up.DeclaredType, up.Filename, up.Data)
	if err != nil {
		s.logger.Info("image rejected", "filename", up.Filename, "reason", err)
		return nil, imageErr(err)
	}

	rel, mirrorErr := s.processor.Mirror(res, up.Data)
	if mirrorErr != nil {
		s.logger.Warn("image mirror failed", "category", "upload", "filename", up.Filename, "error", mirrorErr)
		rel = ""
	}

	original, err := util.SanitizeFilename(up.Filename)
	if err != nil {
		original = "upload" + res.Ext()
	}
	stored := original
	if rel != "" {
		stored = path.Base(rel)
	}

	now := s.now()
	result := &IngestResult{}
	if rel != "" {
		result.URL = UploadsURLPrefix + rel
	}

	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		img, err := q.CreateImage(ctx, store.CreateImageParams{
			Filename:     stored,
			OriginalName: original,
			MimeType:     res.MimeType,
			FileSize:     res.Size,
			Width:        int64(res.Width),
			Height:       int64(res.Height),
			Data:         res.DataURI,
			Path:         rel,
			OwnerKind:    opts.OwnerKind,
			OwnerID:      ownerID,
			UploadedBy:   sql.NullInt64{Int64: opts.UploadedBy, Valid: opts.UploadedBy > 0},
			CreatedAt:    now,
		})
		if err != nil {
			return apperr.Internal(fmt.Errorf("recording image: %w", err))
		}
		result.Image = img

		return s.attach(ctx, q, res, opts, ownerID.Int64, now, result)
	})
	if err != nil {
		if rel != "" {
			_ = s.processor.RemoveMirror(rel)
		}
		return nil, txErr(err)
	}

	s.logger.Info("image uploaded", "image_id", result.Image.ID, "owner_kind", opts.OwnerKind,
		"mime_type", res.MimeType, "size", res.Size)
	s.bus.Publish(ctx, events.NewEvent(events.ImageUploaded, events.ImageEventData{
		ImageID:   result.Image.ID,
		OwnerKind: opts.OwnerKind,
		OwnerID:   ownerID.Int64,
		MimeType:  res.MimeType,
		Size:      res.Size,
	}))
	return result, nil
}

// attach writes the image into its owner inside the ingest transaction.
func (s *ImageService) attach(ctx context.Context, q *store.Queries, res *imaging.Result, opts IngestOptions, ownerID int64, now time.Time, result *IngestResult) error {
	switch opts.OwnerKind {
	case OwnerUserProfile:
		n, err := q.UpdateUserProfilePicture(ctx, store.UpdateUserProfilePictureParams{
			ProfilePicture: sql.NullString{String: res.DataURI, Valid: true},
			UpdatedAt:      now,
			ID:             ownerID,
		})
		return deleteErr(n, err, "User")
	case OwnerProjectFeatured:
		n, err := q.UpdateProjectFeaturedImage(ctx, store.UpdateProjectFeaturedImageParams{
			FeaturedImage: sql.NullString{String: res.DataURI, Valid: true},
			UpdatedAt:     now,
			ID:            ownerID,
		})
		return deleteErr(n, err, "Project")
	case OwnerProjectGallery:
		pi, err := q.AppendProjectImage(ctx, store.AppendProjectImageParams{
			ProjectID:   ownerID,
			Image:       res.DataURI,
			MimeType:    res.MimeType,
			AltText:     opts.AltText,
			Title:       opts.Title,
			Description: opts.Description,
			FileSize:    res.Size,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return writeErr(err, "Project")
		}
		result.ProjectImage = &pi
		return nil
	default:
		return nil
	}
}

// checkOwner validates the owner kind and resolves the owner id.
func (s *ImageService) checkOwner(ctx context.Context, opts *IngestOptions) (sql.NullInt64, error) {
	switch opts.OwnerKind {
	case OwnerNone:
		return sql.NullInt64{}, nil
	case OwnerUserProfile:
		id := opts.UploadedBy
		if opts.OwnerID != nil {
			id = *opts.OwnerID
		}
		if _, err := s.queries.GetUserByID(ctx, id); err != nil {
			return sql.NullInt64{}, lookupErr(err, "User")
		}
		return sql.NullInt64{Int64: id, Valid: true}, nil
	case OwnerProjectFeatured, OwnerProjectGallery:
		if opts.OwnerID == nil || *opts.OwnerID <= 0 {
			return sql.NullInt64{}, apperr.Validation("project_id is required")
		}
		if _, err := s.queries.GetProjectByID(ctx, *opts.OwnerID); err != nil {
			return sql.NullInt64{}, lookupErr(err, "Project")
		}
		return sql.NullInt64{Int64: *opts.OwnerID, Valid: true}, nil
	default:
		return sql.NullInt64{}, apperr.Validation("owner_kind must be user_profile, project_featured or project_gallery")
	}
}

// IngestProjectImages attaches every file to a project gallery and reports
// each file's outcome. One bad file does not stop the rest.
func (s *ImageService) IngestProjectImages(ctx context.Context, projectID int64, uploads []Upload, uploadedBy int64) ([]BatchOutcome, error) {
	if len(uploads) == 0 {
		return nil, apperr.Validation("at least one image is required")
	}
	if projectID <= 0 {
		return nil, apperr.Validation("project_id is required")
	}
	if _, err := s.queries.GetProjectByID(ctx, projectID); err != nil {
		return nil, lookupErr(err, "Project")
	}

	outcomes := make([]BatchOutcome, 0, len(uploads))
	for _, up := range uploads {
		res, err := s.Ingest(ctx, up, IngestOptions{
			OwnerKind:  OwnerProjectGallery,
			OwnerID:    &projectID,
			UploadedBy: uploadedBy,
			Title:      up.Filename,
		})
		outcomes = append(outcomes, BatchOutcome{Filename: up.Filename, Result: res, Err: err})
	}
	return outcomes, nil
}

// ImageList is one page of registry entries.
type ImageList struct {
	Items      []store.Image
	Pagination Pagination
}

// List pages through the image registry without payloads.
func (s *ImageService) List(ctx context.Context, ownerKind string, p Page) (*ImageList, error) {
	page, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	items, err := s.queries.ListImages(ctx, store.ListImagesParams{
		OwnerKind: ownerKind,
		Limit:     int64(page.Limit),
		Offset:    page.Offset(),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.queries.CountImages(ctx, ownerKind)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &ImageList{Items: items, Pagination: newPagination(page, total)}, nil
}

// Get returns one registry entry with its payload.
func (s *ImageService) Get(ctx context.Context, id int64) (store.Image, error) {
	img, err := s.queries.GetImage(ctx, id)
	if err != nil {
		return store.Image{}, lookupErr(err, "Image")
	}
	return img, nil
}

// Delete removes a registry entry and its mirrored file. Copies already
// written into owners are left in place.
func (s *ImageService) Delete(ctx context.Context, id int64) error {
	img, err := s.queries.GetImage(ctx, id)
	if err != nil {
		return lookupErr(err, "Image")
	}
	n, err := s.queries.DeleteImage(ctx, id)
	if err := deleteErr(n, err, "Image"); err != nil {
		return err
	}
	if err := s.processor.RemoveMirror(img.Path); err != nil {
		s.logger.Warn("removing mirrored image failed", "category", "upload", "image_id", id, "error", err)
	}
	return nil
}

// InlineImage is an image given as a JSON field value.
type InlineImage struct {
	Value    string // data URI, URL or upload path; empty when cleared
	MimeType string // empty for URLs
	Size     int64
}

// inlineImage validates an image field of a JSON body. URLs and upload
// paths are stored as given; data URIs pass the same checks as uploads.
func inlineImage(p *imaging.Processor, raw, field string) (InlineImage, error) {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return InlineImage{}, nil
	case imaging.IsDataURI(v):
		res, _, err := p.ValidateDataURI(v)
		if err != nil {
			return InlineImage{}, imageErr(err)
		}
		return InlineImage{Value: res.DataURI, MimeType: res.MimeType, Size: res.Size}, nil
	case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"), strings.HasPrefix(v, UploadsURLPrefix):
		return InlineImage{Value: v}, nil
	default:
		return InlineImage{}, apperr.Validation(field + " must be a data URI or a URL")
	}
}
