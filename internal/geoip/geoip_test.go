// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupDisabled(t *testing.T) {
	g, err := NewLookup("")
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	defer func() { _ = g.Close() }()

	if g.IsEnabled() {
		t.Error("lookup without database should be disabled")
	}

	tests := map[string]string{
		"127.0.0.1":   Local,
		"10.1.2.3":    Local,
		"192.168.0.5": Local,
		"::1":         Local,
		"8.8.8.8":     "",
		"not-an-ip":   "",
		"":            "",
	}
	for ip, want := range tests {
		if got := g.LookupCountry(ip); got != want {
			t.Errorf("LookupCountry(%q) = %q, want %q", ip, got, want)
		}
	}

	if err := g.Reload(); err != nil {
		t.Errorf("Reload with no path: %v", err)
	}
}

func TestLookupMissingFile(t *testing.T) {
	g, err := NewLookup(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("expected error for missing database")
	}
	if g == nil || g.IsEnabled() {
		t.Fatal("lookup should be returned disabled")
	}
	if got := g.LookupCountry("1.1.1.1"); got != "" {
		t.Errorf("LookupCountry = %q, want empty", got)
	}
}

func TestLookupCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mmdb")
	if err := os.WriteFile(path, []byte("not a maxmind database"), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := NewLookup(path)
	if err == nil {
		t.Fatal("expected error for corrupt database")
	}
	if g.IsEnabled() {
		t.Error("corrupt database should leave lookup disabled")
	}
}

func TestZeroValueLookup(t *testing.T) {
	var g Lookup
	var _ Locator = &g
	if got := g.LookupCountry("172.16.0.1"); got != Local {
		t.Errorf("LookupCountry = %q, want %q", got, Local)
	}
	if err := g.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
