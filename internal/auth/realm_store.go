// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"context"
	"errors"

	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/token"
)

// reservedClaims may not be set from identity attributes.
var reservedClaims = map[string]bool{
	token.ClaimSubject:    true,
	token.ClaimIssuer:     true,
	token.ClaimAudience:   true,
	token.ClaimExpiration: true,
	token.ClaimNotBefore:  true,
	token.ClaimIssuedAt:   true,
	token.ClaimID:         true,
	token.ClaimRoles:      true,
}

// StoreRealm authenticates against an identity.Store.
type StoreRealm struct {
	name     string
	priority int
	store    identity.Store
}

// NewStoreRealm returns a realm backed by store.
func NewStoreRealm(name string, priority int, store identity.Store) *StoreRealm {
	return &StoreRealm{name: name, priority: priority, store: store}
}

// Name implements Realm.
func (r *StoreRealm) Name() string { return r.name }

// Priority implements Realm.
func (r *StoreRealm) Priority() int { return r.priority }

// Authenticate implements Realm. Non-empty attributes that do not collide
// with registered claims are copied into the outcome.
func (r *StoreRealm) Authenticate(ctx context.Context, cred *Credential) (Outcome, error) {
	if !cred.HasPassword() {
		return nil, nil
	}

	user, err := identity.Authenticate(ctx, r.store, cred.Username, cred.Secret)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	out := rolesOutcome(user.Roles)
	for k, v := range user.Attributes {
		if !reservedClaims[k] && k != "" && v != "" {
			out[k] = v
		}
	}
	return out, nil
}
