// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the HTTP router and server.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/handler/api"
	"github.com/olegiv/portfolio-api/internal/middleware"
)

// APIPrefix is the base path of every API route.
const APIPrefix = "/api/v1"

// uploadsMaxAge is the browser cache lifetime of mirrored uploads.
const uploadsMaxAge = 7 * 24 * 60 * 60

// Config holds router settings.
type Config struct {
	Addr          string
	CORSOrigins   []string
	UploadsDir    string
	TrustProxy    bool
	IsDevelopment bool
}

// NewRouter builds the application router. metrics may be nil.
func NewRouter(cfg Config, h *api.Handler, authn middleware.Authenticator, metrics *middleware.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteAPIError(w, req, apperr.NotFound("Route"))
	})

	r.Get("/health", h.Health)
	r.Get("/sitemap.xml", h.Sitemap)
	r.Get("/robots.txt", h.Robots)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	if cfg.UploadsDir != "" {
		files := http.StripPrefix("/uploads/", http.FileServer(uploadsFS{http.Dir(cfg.UploadsDir)}))
		r.With(middleware.StaticCache(uploadsMaxAge, true)).Handle("/uploads/*", files)
	}

	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(middleware.MaxBodySize(middleware.MaxJSONBodySize, middleware.MaxMultipartBodySize))
		h.Routes(r, authn)
	})

	return r
}

// New creates the HTTP server with the application timeouts.
func New(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// uploadsFS serves regular files only; directories are reported missing.
type uploadsFS struct {
	fs http.FileSystem
}

func (u uploadsFS) Open(name string) (http.File, error) {
	f, err := u.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
