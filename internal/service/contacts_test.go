// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/testutil"
)

type staticLocator string

func (l staticLocator) LookupCountry(string) string { return string(l) }

func validContact() ContactInput {
	return ContactInput{
		Name:        "Jordan",
		Email:       "Jordan@Example.com",
		ProjectType: "Website",
		Message:     "We need a new site.",
		IPAddress:   "203.0.113.7",
		UserAgent:   "test-agent",
	}
}

func TestContactCreate(t *testing.T) {
	db := testutil.TestDB(t)
	bus := &recordingBus{}
	svc := NewContactService(db, staticLocator("DE"), bus, testutil.DiscardLogger())
	ctx := context.Background()

	in := validContact()
	in.Name = "<b>Jordan</b>"
	in.Message = "Hello <script>alert(1)</script>world"
	in.Company = "  "
	c, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, c.ID)
	assert.Equal(t, "Jordan", c.Name)
	assert.Equal(t, "jordan@example.com", c.Email)
	assert.NotContains(t, c.Message, "<script>")
	assert.False(t, c.Company.Valid)
	assert.Equal(t, "DE", c.Country)
	assert.Equal(t, ContactNew, c.Status)
	assert.False(t, c.RespondedAt.Valid)

	require.Len(t, bus.events, 1)
	assert.Equal(t, events.ContactCreated, bus.events[0].Type)
	data, ok := bus.events[0].Data.(events.ContactEventData)
	require.True(t, ok)
	assert.Equal(t, c.ID, data.SubmissionID)
}

func TestContactCreate_Validation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContactService(db, nil, events.Nop{}, testutil.DiscardLogger())
	ctx := context.Background()

	for name, mutate := range map[string]func(*ContactInput){
		"missing name":         func(in *ContactInput) { in.Name = " " },
		"markup only name":     func(in *ContactInput) { in.Name = "<i></i>" },
		"missing email":        func(in *ContactInput) { in.Email = "" },
		"missing message":      func(in *ContactInput) { in.Message = "" },
		"missing project type": func(in *ContactInput) { in.ProjectType = "" },
		"message too long":     func(in *ContactInput) { in.Message = strings.Repeat("x", MaxContactMessageLength+1) },
	} {
		t.Run(name, func(t *testing.T) {
			in := validContact()
			mutate(&in)
			_, err := svc.Create(ctx, in)
			requireKind(t, err, apperr.KindValidation)
		})
	}
}

func TestContactModeration(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewContactService(db, nil, events.Nop{}, testutil.DiscardLogger())
	ctx := context.Background()

	first, err := svc.Create(ctx, validContact())
	require.NoError(t, err)
	_, err = svc.Create(ctx, validContact())
	require.NoError(t, err)

	c, err := svc.UpdateStatus(ctx, first.ID, ContactStatusInput{Status: ContactInProgress, AdminNotes: ptr("called back")})
	require.NoError(t, err)
	assert.Equal(t, ContactInProgress, c.Status)
	assert.Equal(t, "called back", c.AdminNotes)
	require.True(t, c.RespondedAt.Valid)
	responded := c.RespondedAt.Time

	c, err = svc.UpdateStatus(ctx, first.ID, ContactStatusInput{Status: ContactResolved})
	require.NoError(t, err)
	assert.Equal(t, "called back", c.AdminNotes)
	assert.True(t, responded.Equal(c.RespondedAt.Time))

	_, err = svc.UpdateStatus(ctx, first.ID, ContactStatusInput{Status: "spam"})
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.UpdateStatus(ctx, 9999, ContactStatusInput{Status: ContactResolved})
	requireKind(t, err, apperr.KindNotFound)

	all, err := svc.List(ctx, "", Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	resolved, err := svc.List(ctx, ContactResolved, Page{})
	require.NoError(t, err)
	require.Len(t, resolved.Items, 1)
	assert.Equal(t, first.ID, resolved.Items[0].ID)

	_, err = svc.List(ctx, "bogus", Page{})
	requireKind(t, err, apperr.KindValidation)

	require.NoError(t, svc.Delete(ctx, first.ID))
	_, err = svc.Get(ctx, first.ID)
	requireKind(t, err, apperr.KindNotFound)
	requireKind(t, svc.Delete(ctx, first.ID), apperr.KindNotFound)
}
