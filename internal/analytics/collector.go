// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package analytics counts site traffic in memory and flushes daily rollups
// into site_analytics.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/store"
)

// DateLayout is the format of site_analytics.date.
const DateLayout = "2006-01-02"

// DefaultRangeDays is the report window when no dates are given.
const DefaultRangeDays = 30

// Hit kinds.
const (
	HitPage    = "page"
	HitProject = "project"
)

// Hit is one tracked request.
type Hit struct {
	Kind      string
	Path      string
	IP        string
	UserAgent string
}

// dayCounts holds the unflushed deltas of one day. seen persists across
// flushes so a visitor is counted once per day.
type dayCounts struct {
	pageViews    int64
	projectViews int64
	contacts     int64
	newVisitors  int64
	seen         map[string]struct{}
}

func (d *dayCounts) empty() bool {
	return d.pageViews == 0 && d.projectViews == 0 && d.contacts == 0 && d.newVisitors == 0
}

// Collector aggregates hits. It is safe for concurrent use.
type Collector struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
	salt    string

	mu   sync.Mutex
	days map[string]*dayCounts
}

// NewCollector creates a Collector writing to db.
func NewCollector(db *sql.DB, logger *slog.Logger) *Collector {
	return &Collector{
		queries: store.New(db),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		salt:    generateRandomSalt(),
		days:    make(map[string]*dayCounts),
	}
}

// SetClock replaces the time source, for tests.
func (c *Collector) SetClock(now func() time.Time) {
	c.now = now
}

// Track counts a hit. Bots are ignored; the return value reports whether
// the hit was counted.
func (c *Collector) Track(h Hit) bool {
	if parseUserAgent(h.UserAgent).DeviceType == DeviceBot {
		return false
	}
	day := c.now().Format(DateLayout)
	visitor := visitorHash(c.salt, day, h.IP, h.UserAgent)

	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.day(day)
	if h.Kind == HitProject {
		d.projectViews++
	}
	d.pageViews++
	if _, ok := d.seen[visitor]; !ok {
		d.seen[visitor] = struct{}{}
		d.newVisitors++
	}
	return true
}

// HandleEvent counts contact submissions. It is an events.Handler.
func (c *Collector) HandleEvent(_ context.Context, e events.Event) error {
	if e.Type != events.ContactCreated {
		return nil
	}
	day := c.now().Format(DateLayout)
	c.mu.Lock()
	c.day(day).contacts++
	c.mu.Unlock()
	return nil
}

// day returns the counters of day. c.mu must be held.
func (c *Collector) day(day string) *dayCounts {
	d, ok := c.days[day]
	if !ok {
		d = &dayCounts{seen: make(map[string]struct{})}
		c.days[day] = d
	}
	return d
}

// Flush writes pending deltas. Deltas that fail to persist are kept for
// the next flush. Days before today are dropped once written.
func (c *Collector) Flush(ctx context.Context) error {
	now := c.now()
	today := now.Format(DateLayout)

	c.mu.Lock()
	pending := make(map[string]dayCounts, len(c.days))
	for day, d := range c.days {
		if !d.empty() {
			pending[day] = dayCounts{
				pageViews:    d.pageViews,
				projectViews: d.projectViews,
				contacts:     d.contacts,
				newVisitors:  d.newVisitors,
			}
			d.pageViews, d.projectViews, d.contacts, d.newVisitors = 0, 0, 0, 0
		}
		if day != today {
			delete(c.days, day)
		}
	}
	c.mu.Unlock()

	var firstErr error
	for day, d := range pending {
		err := c.queries.AddDailyAnalytics(ctx, store.AddDailyAnalyticsParams{
			Date:               day,
			PageViews:          d.pageViews,
			UniqueVisitors:     d.newVisitors,
			ProjectViews:       d.projectViews,
			ContactSubmissions: d.contacts,
			UpdatedAt:          now,
		})
		if err != nil {
			c.restore(day, d)
			if firstErr == nil {
				firstErr = fmt.Errorf("flushing analytics for %s: %w", day, err)
			}
		}
	}
	if len(pending) > 0 && firstErr == nil {
		c.logger.Debug("analytics flushed", "days", len(pending))
	}
	return firstErr
}

func (c *Collector) restore(day string, d dayCounts) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur := c.day(day)
	cur.pageViews += d.pageViews
	cur.projectViews += d.projectViews
	cur.contacts += d.contacts
	cur.newVisitors += d.newVisitors
}

// Report returns the persisted daily rows between from and to inclusive
// (YYYY-MM-DD). Empty bounds default to the last DefaultRangeDays days.
func (c *Collector) Report(ctx context.Context, from, to string) ([]store.SiteAnalytic, error) {
	now := c.now()
	if to == "" {
		to = now.Format(DateLayout)
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return nil, apperr.Validation("to must be a date in YYYY-MM-DD format")
	}
	if from == "" {
		from = end.AddDate(0, 0, -(DefaultRangeDays - 1)).Format(DateLayout)
	}
	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return nil, apperr.Validation("from must be a date in YYYY-MM-DD format")
	}
	if start.After(end) {
		return nil, apperr.Validation("from must not be after to")
	}

	rows, err := c.queries.ListAnalytics(ctx, from, to)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}
