// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/token"
)

// DefaultRealmPriority places the configured-users realm after any realm
// registered with the zero priority.
const DefaultRealmPriority = -1

// UserEntry is one configured user.
type UserEntry struct {
	Username string
	// PasswordHash is a bcrypt hash.
	PasswordHash []byte
	Roles        []string
}

// CredentialsRealm authenticates against an in-memory user table.
type CredentialsRealm struct {
	name     string
	priority int

	mu    sync.RWMutex
	users map[string]UserEntry
}

// NewCredentialsRealm returns a realm holding users.
func NewCredentialsRealm(name string, priority int, users ...UserEntry) (*CredentialsRealm, error) {
	r := &CredentialsRealm{name: name, priority: priority, users: make(map[string]UserEntry, len(users))}
	for _, u := range users {
		if err := r.Put(u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Name implements Realm.
func (r *CredentialsRealm) Name() string { return r.name }

// Priority implements Realm.
func (r *CredentialsRealm) Priority() int { return r.priority }

// Put adds or replaces a user.
func (r *CredentialsRealm) Put(u UserEntry) error {
	if err := identity.ValidateUsername(u.Username); err != nil {
		return err
	}
	if len(u.PasswordHash) == 0 {
		return fmt.Errorf("%w: user %q has no password hash", identity.ErrInvalidUser, u.Username)
	}
	u.Roles = slices.Clone(u.Roles)

	r.mu.Lock()
	r.users[u.Username] = u
	r.mu.Unlock()
	return nil
}

// Remove deletes a user and reports whether it existed.
func (r *CredentialsRealm) Remove(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[username]
	delete(r.users, username)
	return ok
}

// Authenticate implements Realm. Only password credentials are considered.
func (r *CredentialsRealm) Authenticate(_ context.Context, cred *Credential) (Outcome, error) {
	if !cred.HasPassword() {
		return nil, nil
	}

	r.mu.RLock()
	u, ok := r.users[cred.Username]
	r.mu.RUnlock()

	if !ok {
		identity.CheckAbsent(cred.Secret)
		return nil, nil
	}
	if !identity.CheckPassword(u.PasswordHash, cred.Secret) {
		return nil, nil
	}
	return rolesOutcome(u.Roles), nil
}

// rolesOutcome builds an outcome carrying roles in the comma-joined claim
// form. An empty role list still yields a non-nil outcome.
func rolesOutcome(roles []string) Outcome {
	out := Outcome{}
	token.SetRoles(out, roles)
	return out
}

// ParseUserEntry parses "username:bcrypt-hash[:role1,role2]". Bcrypt hashes
// contain no colons.
func ParseUserEntry(s string) (UserEntry, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return UserEntry{}, fmt.Errorf("%w: want username:hash[:roles]", identity.ErrInvalidUser)
	}
	u := UserEntry{Username: parts[0], PasswordHash: []byte(parts[1])}
	if len(parts) == 3 {
		for _, role := range strings.Split(parts[2], ",") {
			if role = strings.TrimSpace(role); role != "" {
				u.Roles = append(u.Roles, role)
			}
		}
	}
	return u, nil
}
