// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"context"
	"slices"

	"github.com/tomtom215/warden/internal/token"
)

type contextKey string

const securityContextKey contextKey = "security-context"

// Principal is the authenticated caller.
type Principal struct {
	Name  string
	Roles []string
	// HoldingExpiredToken is set when the principal was read from a token
	// past its exp. The filter never lets such requests through; it is
	// kept for handlers reached by other paths.
	HoldingExpiredToken bool
}

// HasRole reports whether the principal holds role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// SecurityContext is attached to requests that passed the filter.
type SecurityContext struct {
	Principal Principal
	Claims    *token.Claims
	// Scheme is the authentication scheme, "Bearer".
	Scheme string
}

// NewSecurityContext builds the context for verified claims.
func NewSecurityContext(claims *token.Claims, scheme string) *SecurityContext {
	return &SecurityContext{
		Principal: Principal{
			Name:                claims.Subject(),
			Roles:               claims.Roles(),
			HoldingExpiredToken: claims.Expired(),
		},
		Claims: claims,
		Scheme: scheme,
	}
}

// ContextWithSecurity returns ctx carrying sc.
func ContextWithSecurity(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey, sc)
}

// SecurityContextFrom returns the security context attached by the filter.
func SecurityContextFrom(ctx context.Context) (*SecurityContext, bool) {
	sc, ok := ctx.Value(securityContextKey).(*SecurityContext)
	return sc, ok && sc != nil
}
