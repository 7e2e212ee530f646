// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, []byte("correct horse")) {
		t.Error("CheckPassword() = false for the right password")
	}
	if CheckPassword(hash, []byte("battery staple")) {
		t.Error("CheckPassword() = true for the wrong password")
	}
	if _, err := HashPassword(nil, bcrypt.MinCost); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("HashPassword(empty) error = %v, want ErrInvalidUser", err)
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	hash, err := HashPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, &User{Username: "alice", PasswordHash: hash, Roles: []string{"admin"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, &User{Username: "gone", PasswordHash: hash, Disabled: true}); err != nil {
		t.Fatal(err)
	}

	u, err := Authenticate(ctx, s, "alice", []byte("pw"))
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if u.Roles[0] != "admin" {
		t.Errorf("Roles = %v", u.Roles)
	}

	for _, tc := range []struct{ user, pw string }{
		{"alice", "wrong"},
		{"nobody", "pw"},
		{"gone", "pw"},
	} {
		if _, err := Authenticate(ctx, s, tc.user, []byte(tc.pw)); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate(%s) error = %v, want ErrInvalidCredentials", tc.user, err)
		}
	}
}
