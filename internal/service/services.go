// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
)

// DefaultCurrency is used for packages created without one.
const DefaultCurrency = "USD"

// ServiceInput carries a service create or partial update.
type ServiceInput struct {
	Title            *string
	Slug             *string
	ShortDescription *string
	Description      *string
	Icon             *string
	Features         *[]string
	DisplayOrder     *int64
	IsActive         *bool
}

// PackageInput carries a package create or partial update.
type PackageInput struct {
	Name         *string
	Description  *string
	PriceCents   *int64
	Currency     *string
	DeliveryDays *int64
	Revisions    *int64
	Deliverables *[]string
	IsPopular    *bool
	DisplayOrder *int64
}

// PackageView is a package with its deliverables decoded.
type PackageView struct {
	store.ServicePackage
	Deliverables []string `json:"deliverables"`
}

// ServiceView is a service with its features decoded and its packages.
type ServiceView struct {
	store.Service
	Features []string      `json:"features"`
	Packages []PackageView `json:"packages"`
}

// ServiceCatalog manages services and their packages. Services are soft
// deleted; packages are removed outright.
type ServiceCatalog struct {
	clock
	queries *store.Queries
}

// NewServiceCatalog creates a new ServiceCatalog.
func NewServiceCatalog(db *sql.DB) *ServiceCatalog {
	return &ServiceCatalog{clock: newClock(), queries: store.New(db)}
}

// ActiveSlugs returns the slugs of publicly listed services.
func (s *ServiceCatalog) ActiveSlugs(ctx context.Context) ([]store.SlugStamp, error) {
	slugs, err := s.queries.ListActiveServiceSlugs(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return slugs, nil
}

// List returns services with their packages. activeOnly hides inactive
// services for public reads.
func (s *ServiceCatalog) List(ctx context.Context, activeOnly bool) ([]ServiceView, error) {
	services, err := s.queries.ListServices(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views := make([]ServiceView, 0, len(services))
	for _, svc := range services {
		v, err := s.view(ctx, svc)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// Get returns a service by numeric id or by slug. Inactive services are
// hidden when activeOnly is set.
func (s *ServiceCatalog) Get(ctx context.Context, idOrSlug string, activeOnly bool) (ServiceView, error) {
	var (
		svc store.Service
		err error
	)
	if id, ok := parseID(idOrSlug); ok {
		svc, err = s.queries.GetServiceByID(ctx, id)
	} else {
		svc, err = s.queries.GetServiceBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return ServiceView{}, lookupErr(err, "Service")
	}
	if activeOnly && !svc.IsActive {
		return ServiceView{}, apperr.NotFound("Service")
	}
	return s.view(ctx, svc)
}

// Create inserts a service.
func (s *ServiceCatalog) Create(ctx context.Context, in ServiceInput) (ServiceView, error) {
	title, err := trimmed(str(in.Title, ""), "title")
	if err != nil {
		return ServiceView{}, err
	}
	slug, err := resolveSlug(ctx, s.queries.ServiceSlugExists, in.Slug, title, 0, "Service")
	if err != nil {
		return ServiceView{}, err
	}
	features, err := encodeList(in.Features, "[]")
	if err != nil {
		return ServiceView{}, err
	}

	now := s.now()
	svc, err := s.queries.CreateService(ctx, store.CreateServiceParams{
		Title:            title,
		Slug:             slug,
		ShortDescription: str(in.ShortDescription, ""),
		Description:      str(in.Description, ""),
		Icon:             str(in.Icon, ""),
		Features:         features,
		DisplayOrder:     int64Or(in.DisplayOrder, 0),
		IsActive:         boolOr(in.IsActive, true),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		return ServiceView{}, writeErr(err, "Service")
	}
	return s.view(ctx, svc)
}

// Update merges a partial update into a service.
func (s *ServiceCatalog) Update(ctx context.Context, id int64, in ServiceInput) (ServiceView, error) {
	current, err := s.queries.GetServiceByID(ctx, id)
	if err != nil {
		return ServiceView{}, lookupErr(err, "Service")
	}

	title := current.Title
	if in.Title != nil {
		if title, err = trimmed(*in.Title, "title"); err != nil {
			return ServiceView{}, err
		}
	}
	slug := current.Slug
	if in.Slug != nil || title != current.Title {
		if slug, err = resolveSlug(ctx, s.queries.ServiceSlugExists, in.Slug, title, id, "Service"); err != nil {
			return ServiceView{}, err
		}
	}
	features, err := encodeList(in.Features, current.Features)
	if err != nil {
		return ServiceView{}, err
	}

	svc, err := s.queries.UpdateService(ctx, store.UpdateServiceParams{
		Title:            title,
		Slug:             slug,
		ShortDescription: str(in.ShortDescription, current.ShortDescription),
		Description:      str(in.Description, current.Description),
		Icon:             str(in.Icon, current.Icon),
		Features:         features,
		DisplayOrder:     int64Or(in.DisplayOrder, current.DisplayOrder),
		IsActive:         boolOr(in.IsActive, current.IsActive),
		UpdatedAt:        s.now(),
		ID:               id,
	})
	if err != nil {
		return ServiceView{}, writeErr(err, "Service")
	}
	return s.view(ctx, svc)
}

// Delete soft-deletes a service.
func (s *ServiceCatalog) Delete(ctx context.Context, id int64) error {
	now := s.now()
	n, err := s.queries.SoftDeleteService(ctx, store.SoftDeleteServiceParams{
		DeletedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
		ID:        id,
	})
	return deleteErr(n, err, "Service")
}

// Packages lists the packages of a visible service.
func (s *ServiceCatalog) Packages(ctx context.Context, serviceID int64) ([]PackageView, error) {
	if _, err := s.queries.GetServiceByID(ctx, serviceID); err != nil {
		return nil, lookupErr(err, "Service")
	}
	return s.packages(ctx, serviceID)
}

// CreatePackage adds a package to a service.
func (s *ServiceCatalog) CreatePackage(ctx context.Context, serviceID int64, in PackageInput) (PackageView, error) {
	if _, err := s.queries.GetServiceByID(ctx, serviceID); err != nil {
		return PackageView{}, lookupErr(err, "Service")
	}
	name, err := trimmed(str(in.Name, ""), "name")
	if err != nil {
		return PackageView{}, err
	}
	if err := checkPackageNumbers(in); err != nil {
		return PackageView{}, err
	}
	deliverables, err := encodeList(in.Deliverables, "[]")
	if err != nil {
		return PackageView{}, err
	}

	now := s.now()
	pkg, err := s.queries.CreateServicePackage(ctx, store.CreateServicePackageParams{
		ServiceID:    serviceID,
		Name:         name,
		Description:  str(in.Description, ""),
		PriceCents:   int64Or(in.PriceCents, 0),
		Currency:     currency(in.Currency, DefaultCurrency),
		DeliveryDays: int64Or(in.DeliveryDays, 0),
		Revisions:    int64Or(in.Revisions, 0),
		Deliverables: deliverables,
		IsPopular:    boolOr(in.IsPopular, false),
		DisplayOrder: int64Or(in.DisplayOrder, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return PackageView{}, writeErr(err, "Package")
	}
	return packageView(pkg), nil
}

// UpdatePackage merges a partial update into a package of serviceID.
func (s *ServiceCatalog) UpdatePackage(ctx context.Context, serviceID, id int64, in PackageInput) (PackageView, error) {
	current, err := s.queries.GetServicePackage(ctx, serviceID, id)
	if err != nil {
		return PackageView{}, lookupErr(err, "Package")
	}
	name := current.Name
	if in.Name != nil {
		if name, err = trimmed(*in.Name, "name"); err != nil {
			return PackageView{}, err
		}
	}
	if err := checkPackageNumbers(in); err != nil {
		return PackageView{}, err
	}
	deliverables, err := encodeList(in.Deliverables, current.Deliverables)
	if err != nil {
		return PackageView{}, err
	}

	pkg, err := s.queries.UpdateServicePackage(ctx, store.UpdateServicePackageParams{
		Name:         name,
		Description:  str(in.Description, current.Description),
		PriceCents:   int64Or(in.PriceCents, current.PriceCents),
		Currency:     currency(in.Currency, current.Currency),
		DeliveryDays: int64Or(in.DeliveryDays, current.DeliveryDays),
		Revisions:    int64Or(in.Revisions, current.Revisions),
		Deliverables: deliverables,
		IsPopular:    boolOr(in.IsPopular, current.IsPopular),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		UpdatedAt:    s.now(),
		ServiceID:    serviceID,
		ID:           id,
	})
	if err != nil {
		return PackageView{}, writeErr(err, "Package")
	}
	return packageView(pkg), nil
}

// DeletePackage removes a package of serviceID.
func (s *ServiceCatalog) DeletePackage(ctx context.Context, serviceID, id int64) error {
	n, err := s.queries.DeleteServicePackage(ctx, serviceID, id)
	return deleteErr(n, err, "Package")
}

func (s *ServiceCatalog) view(ctx context.Context, svc store.Service) (ServiceView, error) {
	pkgs, err := s.packages(ctx, svc.ID)
	if err != nil {
		return ServiceView{}, err
	}
	return ServiceView{Service: svc, Features: decodeList(svc.Features), Packages: pkgs}, nil
}

func (s *ServiceCatalog) packages(ctx context.Context, serviceID int64) ([]PackageView, error) {
	rows, err := s.queries.ListServicePackages(ctx, serviceID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	views := make([]PackageView, 0, len(rows))
	for _, p := range rows {
		views = append(views, packageView(p))
	}
	return views, nil
}

func packageView(p store.ServicePackage) PackageView {
	return PackageView{ServicePackage: p, Deliverables: decodeList(p.Deliverables)}
}

func checkPackageNumbers(in PackageInput) error {
	for field, v := range map[string]*int64{
		"price_cents":   in.PriceCents,
		"delivery_days": in.DeliveryDays,
		"revisions":     in.Revisions,
	} {
		if v != nil && *v < 0 {
			return apperr.Validation(field + " must not be negative")
		}
	}
	return nil
}

func currency(p *string, def string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return def
	}
	return strings.ToUpper(strings.TrimSpace(*p))
}

// encodeList stores a string list as a JSON array. A nil list keeps def.
func encodeList(list *[]string, def string) (string, error) {
	if list == nil {
		return def, nil
	}
	items := make([]string, 0, len(*list))
	for _, item := range *list {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return string(b), nil
}

// decodeList reads a JSON array column. Malformed values read as empty.
func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}
