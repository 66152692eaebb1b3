// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/geoip"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// Contact submission statuses.
const (
	ContactNew        = "new"
	ContactInProgress = "in_progress"
	ContactResolved   = "resolved"
)

// MaxContactMessageLength limits the stored message, in characters.
const MaxContactMessageLength = 5000

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name              string
	Email             string
	Phone             string
	Company           string
	ProjectType       string
	BudgetRange       string
	Message           string
	PreferredTimeline string
	IPAddress         string
	UserAgent         string
}

// ContactStatusInput is an admin moderation update.
type ContactStatusInput struct {
	Status     string
	AdminNotes *string
}

// ContactList is one page of submissions.
type ContactList struct {
	Items      []store.ContactSubmission
	Pagination Pagination
}

// ContactService stores and moderates contact form submissions.
type ContactService struct {
	clock
	queries *store.Queries
	geo     geoip.Locator
	bus     events.Bus
	logger  *slog.Logger
}

// NewContactService creates a new ContactService. geo may be nil.
func NewContactService(db *sql.DB, geo geoip.Locator, bus events.Bus, logger *slog.Logger) *ContactService {
	if geo == nil {
		geo = &geoip.Lookup{}
	}
	return &ContactService{clock: newClock(), queries: store.New(db), geo: geo, bus: bus, logger: logger}
}

// Create stores a submission. Markup is stripped from every text field.
// Notification happens through the contact.created event and never fails
// the submission.
func (s *ContactService) Create(ctx context.Context, in ContactInput) (store.ContactSubmission, error) {
	name, err := trimmed(plainText(in.Name), "name")
	if err != nil {
		return store.ContactSubmission{}, err
	}
	email, err := trimmed(strings.ToLower(in.Email), "email")
	if err != nil {
		return store.ContactSubmission{}, err
	}
	message, err := trimmed(plainText(in.Message), "message")
	if err != nil {
		return store.ContactSubmission{}, err
	}
	if utf8.RuneCountInString(message) > MaxContactMessageLength {
		return store.ContactSubmission{}, apperr.Newf(apperr.KindValidation,
			"message must be at most %d characters", MaxContactMessageLength)
	}
	projectType, err := trimmed(plainText(in.ProjectType), "project_type")
	if err != nil {
		return store.ContactSubmission{}, err
	}

	now := s.now()
	c, err := s.queries.CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		Name:              name,
		Email:             email,
		Phone:             util.NullStringFromValue(plainText(in.Phone)),
		Company:           util.NullStringFromValue(plainText(in.Company)),
		ProjectType:       projectType,
		BudgetRange:       util.NullStringFromValue(plainText(in.BudgetRange)),
		Message:           message,
		PreferredTimeline: util.NullStringFromValue(plainText(in.PreferredTimeline)),
		IpAddress:         in.IPAddress,
		Country:           s.geo.LookupCountry(in.IPAddress),
		UserAgent:         in.UserAgent,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return store.ContactSubmission{}, writeErr(err, "Contact submission")
	}

	s.logger.Info("contact submission received", "category", "contact", "submission_id", c.ID, "country", c.Country)
	s.bus.Publish(ctx, events.NewEvent(events.ContactCreated, events.ContactEventData{
		SubmissionID: c.ID,
		Name:         c.Name,
		Email:        c.Email,
		Subject:      c.ProjectType,
		Message:      c.Message,
		SubmittedAt:  c.CreatedAt,
	}))
	return c, nil
}

// List pages through submissions, newest first. An empty status lists all.
func (s *ContactService) List(ctx context.Context, status string, p Page) (*ContactList, error) {
	if status != "" && !validContactStatus(status) {
		return nil, apperr.Validation("status must be new, in_progress or resolved")
	}
	page, err := p.Normalize()
	if err != nil {
		return nil, err
	}
	items, err := s.queries.ListContactSubmissions(ctx, store.ListContactSubmissionsParams{
		Status: status,
		Limit:  int64(page.Limit),
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	total, err := s.queries.CountContactSubmissions(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &ContactList{Items: items, Pagination: newPagination(page, total)}, nil
}

// Get returns one submission.
func (s *ContactService) Get(ctx context.Context, id int64) (store.ContactSubmission, error) {
	c, err := s.queries.GetContactSubmission(ctx, id)
	if err != nil {
		return store.ContactSubmission{}, lookupErr(err, "Contact submission")
	}
	return c, nil
}

// UpdateStatus moves a submission through moderation. responded_at is
// stamped the first time the status leaves new and is kept afterwards.
func (s *ContactService) UpdateStatus(ctx context.Context, id int64, in ContactStatusInput) (store.ContactSubmission, error) {
	if !validContactStatus(in.Status) {
		return store.ContactSubmission{}, apperr.Validation("status must be new, in_progress or resolved")
	}
	current, err := s.queries.GetContactSubmission(ctx, id)
	if err != nil {
		return store.ContactSubmission{}, lookupErr(err, "Contact submission")
	}

	now := s.now()
	responded := current.RespondedAt
	if !responded.Valid && in.Status != ContactNew {
		responded = sql.NullTime{Time: now, Valid: true}
	}

	c, err := s.queries.UpdateContactStatus(ctx, store.UpdateContactStatusParams{
		Status:      in.Status,
		AdminNotes:  str(in.AdminNotes, current.AdminNotes),
		RespondedAt: responded,
		UpdatedAt:   now,
		ID:          id,
	})
	if err != nil {
		return store.ContactSubmission{}, writeErr(err, "Contact submission")
	}
	return c, nil
}

// Delete removes a submission.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteContactSubmission(ctx, id)
	return deleteErr(n, err, "Contact submission")
}

func validContactStatus(status string) bool {
	switch status {
	case ContactNew, ContactInProgress, ContactResolved:
		return true
	}
	return false
}
