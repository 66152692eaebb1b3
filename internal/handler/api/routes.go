// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-api/internal/middleware"
)

// Routes registers every API route on r, which is mounted at /api/v1.
func (h *Handler) Routes(r chi.Router, authn middleware.Authenticator) {
	requireUser := middleware.Authenticate(authn)
	admin := r.With(requireUser, middleware.RequireAdmin())

	loginLimiter := h.limiter(middleware.LoginRateLimit)
	contactLimiter := h.limiter(middleware.ContactRateLimit)
	trackLimiter := h.limiter(middleware.TrackRateLimit)

	r.Get("/health", h.Health)

	r.Route("/auth", func(r chi.Router) {
		r.With(loginLimiter.Middleware).Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
		})
	})

	r.Get("/profile", h.PublicProfile)
	admin.Get("/users", h.ListUsers)
	admin.Post("/users", h.CreateUser)

	r.Route("/projects", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.ListProjects)
		r.Get("/categories", h.ListCategories)
		admin.Get("/admin/all", h.ListAdminProjects)
		admin.Get("/admin/{id}", h.GetAdminProject)
		r.Get("/{slug}", h.GetProject)

		admin.Post("/", h.CreateProject)
		admin.Put("/{id}", h.UpdateProject)
		admin.Delete("/{id}", h.DeleteProject)

		admin.Post("/categories", h.CreateCategory)
		admin.Put("/categories/{id}", h.UpdateCategory)
		admin.Delete("/categories/{id}", h.DeleteCategory)

		admin.Put("/{id}/images/{imageID}", h.UpdateProjectImage)
		admin.Delete("/{id}/images/{imageID}", h.DeleteProjectImage)
	})

	r.Route("/services", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.ListServices)
		r.Get("/{id}", h.GetService)
		admin.Post("/", h.CreateService)
		admin.Put("/{id}", h.UpdateService)
		admin.Delete("/{id}", h.DeleteService)

		r.Get("/{id}/packages", h.ListPackages)
		admin.Post("/{id}/packages", h.CreatePackage)
		admin.Put("/{id}/packages/{packageID}", h.UpdatePackage)
		admin.Delete("/{id}/packages/{packageID}", h.DeletePackage)
	})

	r.Route("/contact", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.With(contactLimiter.Middleware).Post("/", h.CreateContact)
		admin.Get("/", h.ListContacts)
		admin.Get("/{id}", h.GetContact)
		admin.Put("/{id}", h.UpdateContact)
		admin.Delete("/{id}", h.DeleteContact)
	})

	r.Route("/gallery", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.ListGallery)
		admin.Get("/admin", h.ListAdminGallery)
		admin.Post("/", h.CreateGalleryImage)
		admin.Put("/{id}", h.UpdateGalleryImage)
		admin.Delete("/{id}", h.DeleteGalleryImage)
	})

	r.Route("/testimonials", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.ListTestimonials)
		admin.Get("/admin", h.ListAdminTestimonials)
		admin.Post("/", h.CreateTestimonial)
		admin.Put("/{id}", h.UpdateTestimonial)
		admin.Delete("/{id}", h.DeleteTestimonial)
	})

	r.Route("/social-links", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.ListSocialLinks)
		admin.Get("/admin", h.ListAdminSocialLinks)
		admin.Post("/", h.CreateSocialLink)
		admin.Put("/{id}", h.UpdateSocialLink)
		admin.Delete("/{id}", h.DeleteSocialLink)
	})

	r.Route("/images", func(r chi.Router) {
		r.Use(requireUser, middleware.RequireAdmin())

		r.Post("/upload", h.UploadImage)
		r.Post("/project-images", h.UploadProjectImages)
		r.Get("/", h.ListImages)
		r.Get("/{id}", h.GetImage)
		r.Delete("/{id}", h.DeleteImage)
	})

	r.Route("/settings", func(r chi.Router) {
		admin := r.With(requireUser, middleware.RequireAdmin())

		r.Get("/", h.PublicSettings)
		admin.Get("/admin", h.ListSettings)
		admin.Put("/{key}", h.UpsertSetting)
	})

	r.With(trackLimiter.Middleware).Post("/analytics/track", h.Track)
	admin.Get("/analytics", h.AnalyticsReport)
	admin.Get("/dashboard/stats", h.DashboardStats)
}

func (h *Handler) limiter(cfg middleware.RateLimitConfig) *middleware.IPRateLimiter {
	cfg.TrustProxy = h.trustProxy
	return middleware.NewIPRateLimiter(cfg)
}
