// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers of the portfolio API.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/olegiv/portfolio-api/internal/analytics"
	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/captcha"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/service"
)

// Services groups the domain services the handlers delegate to.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Projects     *service.ProjectService
	Categories   *service.CategoryService
	Catalog      *service.ServiceCatalog
	Contacts     *service.ContactService
	Gallery      *service.GalleryService
	Testimonials *service.TestimonialService
	Settings     *service.SettingsService
	SocialLinks  *service.SocialLinkService
	Images       *service.ImageService
	Dashboard    *service.DashboardService
	Analytics    *analytics.Collector
	Captcha      captcha.Verifier // nil disables the contact form check
}

// Options configures a Handler.
type Options struct {
	Environment string
	Version     string
	UploadsDir  string
	TrustProxy  bool
	SiteURL     string
	Logger      *slog.Logger
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc        Services
	db         *sql.DB
	validate   *validator.Validate
	logger     *slog.Logger
	env        string
	version    string
	uploadsDir string
	trustProxy bool
	siteURL    string
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, svc Services, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		svc:        svc,
		db:         db,
		validate:   newValidator(),
		logger:     logger,
		env:        opts.Environment,
		version:    opts.Version,
		uploadsDir: opts.UploadsDir,
		trustProxy: opts.TrustProxy,
		siteURL:    opts.SiteURL,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// newValidator returns a validator reporting fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// decodeJSON reads the request body into dst and validates it.
func (h *Handler) decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return apperr.New(apperr.KindPayloadTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required")
		default:
			return apperr.Validation("Invalid JSON body")
		}
	}
	return h.check(dst)
}

// check runs struct validation and converts field failures to VALIDATION.
func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(fmt.Errorf("validating request: %w", err))
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperr.Validation(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, lengthHint(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, lengthHint(fe))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte", "gt":
		return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
	default:
		return field + " is invalid"
	}
}

func lengthHint(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return fe.Param() + " characters"
	}
	return fe.Param()
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.KindValidation, "Invalid %s ID", resource)
	}
	return id, nil
}

// pageParams reads page and limit query parameters.
func pageParams(r *http.Request) (service.Page, error) {
	var p service.Page
	q := r.URL.Query()
	for _, f := range []struct {
		name string
		dst  *int
	}{{"page", &p.Page}, {"limit", &p.Limit}} {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, apperr.Newf(apperr.KindValidation, "%s must be an integer", f.name)
		}
		*f.dst = n
	}
	return p, nil
}

// boolQuery reports whether a query flag is set to a true value.
func boolQuery(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

func writeOK(w http.ResponseWriter, data any) {
	middleware.WriteSuccess(w, http.StatusOK, "", data)
}

func writeMessage(w http.ResponseWriter, message string, data any) {
	middleware.WriteSuccess(w, http.StatusOK, message, data)
}

func writeCreated(w http.ResponseWriter, message string, data any) {
	middleware.WriteSuccess(w, http.StatusCreated, message, data)
}

// ListResponse is the payload of paginated lists.
type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination service.Pagination `json:"pagination"`
}

// mapSlice converts every element with fn. The result is never nil.
func mapSlice[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
