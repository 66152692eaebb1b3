// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package webhook

import (
	"fmt"
	"sync"
	"time"

	"github.com/olegiv/portfolio-api/internal/events"
)

// DebounceConfig holds debouncer configuration.
type DebounceConfig struct {
	// Interval is the quiet period after the last event before it is sent.
	Interval time.Duration
	// MaxWait bounds how long an entity can keep postponing delivery.
	MaxWait time.Duration
}

// DefaultDebounceConfig returns default debounce configuration.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		Interval: time.Second,
		MaxWait:  5 * time.Second,
	}
}

type pendingEvent struct {
	event     events.Event
	timer     *time.Timer
	firstSeen time.Time
}

// Debouncer coalesces repeated events for the same entity; only the latest
// one is emitted.
type Debouncer struct {
	config  DebounceConfig
	emit    func(events.Event)
	pending map[string]*pendingEvent
	mu      sync.Mutex
	wg      sync.WaitGroup
	now     func() time.Time
}

// NewDebouncer creates a debouncer that passes coalesced events to emit.
func NewDebouncer(config DebounceConfig, emit func(events.Event)) *Debouncer {
	return &Debouncer{
		config:  config,
		emit:    emit,
		pending: make(map[string]*pendingEvent),
		now:     time.Now,
	}
}

// eventKey identifies the entity an event is about.
func eventKey(e events.Event) string {
	var id int64
	switch data := e.Data.(type) {
	case events.ProjectEventData:
		id = data.ID
	case events.EntityData:
		return fmt.Sprintf("%s:%s:%d", e.Type, data.Entity, data.ID)
	case events.ImageEventData:
		id = data.ImageID
	case events.ContactEventData:
		id = data.SubmissionID
	case events.SettingEventData:
		return e.Type + ":" + data.Key
	default:
		return e.Type
	}
	return fmt.Sprintf("%s:%d", e.Type, id)
}

// Add schedules e, replacing a pending event for the same entity.
func (d *Debouncer) Add(e events.Event) {
	key := eventKey(e)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, ok := d.pending[key]; ok {
		existing.event = e
		if now.Sub(existing.firstSeen) >= d.config.MaxWait {
			d.emitLocked(key)
			return
		}
		existing.timer.Reset(d.config.Interval)
		return
	}

	pe := &pendingEvent{event: e, firstSeen: now}
	pe.timer = time.AfterFunc(d.config.Interval, func() {
		d.mu.Lock()
		d.emitLocked(key)
		d.mu.Unlock()
	})
	d.pending[key] = pe
}

// emitLocked must be called with d.mu held.
func (d *Debouncer) emitLocked(key string) {
	pe, ok := d.pending[key]
	if !ok {
		return
	}
	pe.timer.Stop()
	delete(d.pending, key)

	d.wg.Add(1)
	go func(e events.Event) {
		defer d.wg.Done()
		d.emit(e)
	}(pe.event)
}

// Flush emits every pending event now.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key := range d.pending {
		d.emitLocked(key)
	}
}

// Stop flushes and waits for in-flight emits.
func (d *Debouncer) Stop() {
	d.Flush()
	d.wg.Wait()
}

// PendingCount returns the number of pending events.
func (d *Debouncer) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
