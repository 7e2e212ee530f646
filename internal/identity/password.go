// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost for stored passwords.
const DefaultCost = 12

// HashPassword returns a bcrypt hash of password. A cost of 0 selects
// DefaultCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password must not be empty", ErrInvalidUser)
	}
	if cost == 0 {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// dummyHash is compared against when a user does not exist, so unknown and
// known usernames take comparable time.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("warden-timing-equalizer"), DefaultCost)
	return h
})

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, password) == nil
}

// CheckAbsent spends one bcrypt comparison for a username with no record,
// so callers that check their own user tables answer in comparable time.
func CheckAbsent(password []byte) {
	CheckPassword(dummyHash(), password)
}

// Authenticate looks up username in store and checks password against the
// stored hash. Unknown, disabled and mismatched users all yield
// ErrInvalidCredentials; store failures are returned as they are.
func Authenticate(ctx context.Context, store Store, username string, password []byte) (*User, error) {
	user, err := store.Get(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		CheckAbsent(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) || user.Disabled {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
