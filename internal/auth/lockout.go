// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "time"

// Lockout defaults.
const (
	DefaultMaxAttempts  = 5
	DefaultWindow       = 15 * time.Minute
	DefaultLockDuration = 15 * time.Minute
)

// LoginState is the per-account counter state persisted with the user row.
type LoginState struct {
	Attempts    int64
	LastFailed  time.Time // zero when no failure is recorded
	LockedUntil time.Time // zero when not locked
	LastLogin   time.Time
}

// LockoutPolicy decides how failed logins accumulate into a lock.
type LockoutPolicy struct {
	MaxAttempts  int64
	Window       time.Duration
	LockDuration time.Duration
}

// DefaultLockoutPolicy locks an account for 15 minutes after 5 failures
// within 15 minutes.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		Window:       DefaultWindow,
		LockDuration: DefaultLockDuration,
	}
}

// IsLocked reports whether the account is locked at now.
func (p LockoutPolicy) IsLocked(s LoginState, now time.Time) bool {
	return !s.LockedUntil.IsZero() && now.Before(s.LockedUntil)
}

// RegisterFailure returns the state after one more failed attempt.
// A failure outside the window restarts the count at 1. Reaching
// MaxAttempts sets LockedUntil and resets the counter.
func (p LockoutPolicy) RegisterFailure(s LoginState, now time.Time) LoginState {
	next := s

	if s.LastFailed.IsZero() || now.Sub(s.LastFailed) > p.Window {
		next.Attempts = 1
	} else {
		next.Attempts = s.Attempts + 1
	}
	next.LastFailed = now

	if !next.LockedUntil.IsZero() && !now.Before(next.LockedUntil) {
		next.LockedUntil = time.Time{}
	}

	if next.Attempts >= p.MaxAttempts {
		next.LockedUntil = now.Add(p.LockDuration)
		next.Attempts = 0
	}

	return next
}

// RegisterSuccess returns the state after a successful login.
func (p LockoutPolicy) RegisterSuccess(s LoginState, now time.Time) LoginState {
	return LoginState{LastLogin: now}
}
