// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	logger := slog.Default()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_Add(t *testing.T) {
	s := New(slog.Default())
	noop := func(context.Context) error { return nil }

	if err := s.Add(Job{Name: "flush", Schedule: EveryFiveMinutes, Run: noop}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(Job{Name: "flush", Schedule: EveryFiveMinutes, Run: noop}); err == nil {
		t.Error("Add() should reject a duplicate name")
	}
	if err := s.Add(Job{Name: "bad", Schedule: "not a schedule", Run: noop}); err == nil {
		t.Error("Add() should reject an invalid schedule")
	}
	if err := s.Add(Job{Name: "geoip", Schedule: Weekly, Run: noop}); err != nil {
		t.Fatalf("Add(@weekly) error = %v", err)
	}

	jobs := s.Jobs()
	if len(jobs) != 2 {
		t.Fatalf("Jobs() len = %d, want 2", len(jobs))
	}
	if jobs[0].Name != "flush" || jobs[1].Name != "geoip" {
		t.Errorf("Jobs() not sorted by name: %+v", jobs)
	}
}

func TestScheduler_TriggerNow(t *testing.T) {
	s := New(slog.Default())
	calls := 0
	boom := errors.New("boom")
	if err := s.Add(Job{Name: "count", Schedule: EveryFiveMinutes, Run: func(context.Context) error {
		calls++
		return boom
	}}); err != nil {
		t.Fatal(err)
	}

	if err := s.TriggerNow(context.Background(), "count"); !errors.Is(err, boom) {
		t.Errorf("TriggerNow() error = %v, want %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err := s.TriggerNow(context.Background(), "missing"); err == nil {
		t.Error("TriggerNow() should fail for an unknown job")
	}
}

func TestScheduler_TriggerNowRecoversPanic(t *testing.T) {
	s := New(slog.Default())
	if err := s.Add(Job{Name: "panics", Schedule: Weekly, Run: func(context.Context) error {
		panic("kaboom")
	}}); err != nil {
		t.Fatal(err)
	}

	err := s.TriggerNow(context.Background(), "panics")
	if err == nil || err.Error() != "job panic: kaboom" {
		t.Errorf("TriggerNow() error = %v, want job panic", err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(slog.Default())
	s.Start()
	s.Stop()
}
