// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package events provides an in-process change event bus.
package events

import (
	"context"
	"time"
)

// Event types.
const (
	ImageUploaded  = "image.uploaded"
	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"
	ContactCreated = "contact.created"
	SettingUpdated = "setting.updated"
)

// Event represents a change notification.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// NewEvent creates a new event stamped with the current time.
func NewEvent(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// Handler receives published events.
type Handler func(ctx context.Context, e Event) error

// Bus publishes events to subscribers.
type Bus interface {
	Publish(ctx context.Context, e Event)
	// Subscribe registers h and returns a function that removes it.
	Subscribe(h Handler) func()
}

// EntityData identifies the entity an event refers to.
type EntityData struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id"`
}

// ImageEventData contains data for image upload events.
type ImageEventData struct {
	ImageID   int64  `json:"image_id"`
	OwnerKind string `json:"owner_kind"`
	OwnerID   int64  `json:"owner_id,omitempty"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
}

// ProjectEventData contains data for project events.
type ProjectEventData struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// ContactEventData contains data for contact submission events.
type ContactEventData struct {
	SubmissionID int64     `json:"submission_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SettingEventData contains data for setting changes.
type SettingEventData struct {
	Key string `json:"key"`
}

// Nop is a Bus that discards every event.
type Nop struct{}

// Publish implements Bus.
func (Nop) Publish(context.Context, Event) {}

// Subscribe implements Bus.
func (Nop) Subscribe(Handler) func() { return func() {} }
