// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Admin123!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	other, _ := HashPassword("Admin123!")
	if other == hash {
		t.Error("expected distinct salts to give distinct hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Admin123!")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if !CheckPassword("Admin123!", hash) {
		t.Error("correct password was rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Error("wrong password was accepted")
	}
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$argon2id$v=19$bad", "$argon2i$v=19$m=1,t=1,p=1$AA$AA"} {
		if CheckPassword("x", h) {
			t.Errorf("CheckPassword accepted malformed hash %q", h)
		}
	}
}

func TestCheckPassword_Bcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), MinBcryptCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	if !CheckPassword("Admin123!", string(legacy)) {
		t.Error("bcrypt hash rejected correct password")
	}
	if CheckPassword("wrong", string(legacy)) {
		t.Error("bcrypt hash accepted wrong password")
	}
	if !NeedsRehash(string(legacy)) {
		t.Error("bcrypt hash should need rehash")
	}

	cost, err := BcryptCost(string(legacy))
	if err != nil || cost != MinBcryptCost {
		t.Errorf("BcryptCost = %d, %v", cost, err)
	}
}

func TestNeedsRehash(t *testing.T) {
	current, _ := HashPassword("x")
	if NeedsRehash(current) {
		t.Error("current hash should not need rehash")
	}

	old := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	if !NeedsRehash(old) {
		t.Error("hash with old parameters should need rehash")
	}
}

func TestCheckPassword_DifferentParameters(t *testing.T) {
	// Generated with m=65536,t=1,p=4 for "changeme".
	dbHash := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	if !CheckPassword("changeme", dbHash) {
		t.Fatal("hash rejected correct password 'changeme'")
	}
	if CheckPassword("wrongpassword", dbHash) {
		t.Fatal("hash accepted wrong password")
	}
}
