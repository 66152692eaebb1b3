// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// Multipart field names.
const (
	fieldImage     = "image"
	fieldImages    = "images"
	fieldOwnerKind = "owner_kind"
	fieldOwnerID   = "owner_id"
	fieldProjectID = "project_id"
)

// multipartMemory is the part of a multipart body kept in memory; the
// rest spills to temporary files.
const multipartMemory = 32 << 20

// UploadImage handles POST /images/upload.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[fieldImage]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}
	if len(headers) == 0 {
		middleware.WriteAPIError(w, r, apperr.Validation("image file is required"))
		return
	}
	up, err := readUpload(headers[0])
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	opts := service.IngestOptions{
		OwnerKind:   strings.TrimSpace(r.FormValue(fieldOwnerKind)),
		UploadedBy:  middleware.GetUserID(r),
		AltText:     r.FormValue("alt_text"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if raw := strings.TrimSpace(r.FormValue(fieldOwnerID)); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			middleware.WriteAPIError(w, r, apperr.Validation("owner_id must be a positive integer"))
			return
		}
		opts.OwnerID = &id
	}

	res, err := h.svc.Images.Ingest(r.Context(), up, opts)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Image uploaded", uploadResponse(res))
}

// UploadProjectImages handles POST /images/project-images. The response
// is 200 when at least one file was stored; otherwise it carries the
// status of the first failure with every outcome in data.
func (h *Handler) UploadProjectImages(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(r); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	projectID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue(fieldProjectID)), 10, 64)
	if err != nil || projectID <= 0 {
		middleware.WriteAPIError(w, r, apperr.Validation("project_id must be a positive integer"))
		return
	}

	headers := r.MultipartForm.File[fieldImages]
	outcomes := make([]service.BatchOutcome, len(headers))
	uploads := make([]service.Upload, 0, len(headers))
	slots := make([]int, 0, len(headers))
	for i, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			outcomes[i] = service.BatchOutcome{Filename: fh.Filename, Err: err}
			continue
		}
		uploads = append(uploads, up)
		slots = append(slots, i)
	}
	if len(uploads) == 0 && len(headers) > 0 {
		writeBatch(w, r, outcomes)
		return
	}

	ingested, err := h.svc.Images.IngestProjectImages(r.Context(), projectID, uploads, middleware.GetUserID(r))
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	placeOutcomes(outcomes, slots, ingested)
	writeBatch(w, r, outcomes)
}

// placeOutcomes puts each ingested outcome back at the position its file
// had in the request.
func placeOutcomes(outcomes []service.BatchOutcome, slots []int, ingested []service.BatchOutcome) {
	for k, o := range ingested {
		outcomes[slots[k]] = o
	}
}

func writeBatch(w http.ResponseWriter, r *http.Request, outcomes []service.BatchOutcome) {
	resp := make([]OutcomeResponse, 0, len(outcomes))
	var firstErr error
	succeeded := 0
	for _, o := range outcomes {
		item := OutcomeResponse{Filename: o.Filename, Success: o.Success()}
		if o.Success() {
			succeeded++
			img := imageResponse(o.Result.Image)
			if o.Result.URL != "" {
				img.URL = o.Result.URL
			}
			item.Image = &img
			item.ProjectImage = o.Result.ProjectImage
		} else {
			if firstErr == nil {
				firstErr = o.Err
			}
			item.Error = string(apperr.KindOf(o.Err))
			if e, ok := apperr.As(o.Err); ok && e.Kind != apperr.KindInternal {
				item.Message = e.Message
			} else {
				item.Message = "An internal error occurred"
			}
		}
		resp = append(resp, item)
	}

	if succeeded == 0 {
		middleware.WriteAPIErrorData(w, r, firstErr, resp)
		return
	}
	writeMessage(w, fmt.Sprintf("%d of %d images uploaded", succeeded, len(outcomes)), resp)
}

// parseMultipart parses a multipart body, mapping the body limit to 413.
func parseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.New(apperr.KindPayloadTooLarge, "Upload too large")
	}
	return apperr.Validation("Request must be multipart/form-data")
}

// readUpload reads one file part into memory.
func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, apperr.Internal(fmt.Errorf("opening upload: %w", err))
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, apperr.Internal(fmt.Errorf("reading upload: %w", err))
	}
	return service.Upload{
		Filename:     fh.Filename,
		DeclaredType: fh.Header.Get("Content-Type"),
		Data:         data,
	}, nil
}

// ListImages handles GET /images.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	page, err := pageParams(r)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	list, err := h.svc.Images.List(r.Context(), r.URL.Query().Get(fieldOwnerKind), page)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, ListResponse[ImageResponse]{
		Items:      mapSlice(list.Items, imageResponse),
		Pagination: list.Pagination,
	})
}

// GetImage handles GET /images/{id}.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "image")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	img, err := h.svc.Images.Get(r.Context(), id)
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, imageDetailResponse(img))
}

// DeleteImage handles DELETE /images/{id}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "image")
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	if err := h.svc.Images.Delete(r.Context(), id); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeMessage(w, "Image deleted", nil)
}
