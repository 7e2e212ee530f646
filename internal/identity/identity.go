// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tomtom215/warden/internal/metrics"
)

var (
	// ErrUserNotFound is returned when no record exists for a username.
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrInvalidUser is returned when a record fails validation.
	ErrInvalidUser = errors.New("identity: invalid user")

	// ErrInvalidCredentials is returned when a password does not match or
	// the user is unknown or disabled. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// MaxUsernameLength bounds stored usernames.
const MaxUsernameLength = 128

// User is a stored identity record.
type User struct {
	Username     string            `json:"username"`
	PasswordHash []byte            `json:"password_hash"`
	Roles        []string          `json:"roles,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Disabled     bool              `json:"disabled,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Store persists identity records. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the record for username or ErrUserNotFound.
	Get(ctx context.Context, username string) (*User, error)

	// Put creates or replaces a record.
	Put(ctx context.Context, user *User) error

	// Delete removes a record or returns ErrUserNotFound.
	Delete(ctx context.Context, username string) error

	// List returns all usernames in lexical order.
	List(ctx context.Context) ([]string, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	Close() error
}

// ValidateUsername rejects blank, overlong and control-character usernames.
func ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username must not be blank", ErrInvalidUser)
	}
	if len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: username longer than %d bytes", ErrInvalidUser, MaxUsernameLength)
	}
	for _, r := range username {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: username contains control characters", ErrInvalidUser)
		}
	}
	return nil
}

func validateUser(u *User) error {
	if u == nil {
		return fmt.Errorf("%w: nil user", ErrInvalidUser)
	}
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if len(u.PasswordHash) == 0 {
		return fmt.Errorf("%w: password hash is required", ErrInvalidUser)
	}
	return nil
}

// record reports an operation outcome; a miss is not an error.
func record(backend, op string, err error) {
	if errors.Is(err, ErrUserNotFound) {
		err = nil
	}
	metrics.RecordIdentityStoreOp(backend, op, err)
}
