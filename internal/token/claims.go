// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"math"
	"slices"
	"strings"
	"time"
)

// Registered and well-known claim names.
const (
	ClaimSubject    = "sub"
	ClaimIssuer     = "iss"
	ClaimAudience   = "aud"
	ClaimExpiration = "exp"
	ClaimNotBefore  = "nbf"
	ClaimIssuedAt   = "iat"
	ClaimID         = "jti"
	ClaimRoles      = "roles"
)

// Claims is a read-only view over the claims of a verified token.
type Claims struct {
	values  map[string]any
	expired bool
}

// NewClaims wraps a copy of values. It is exported for introspector tests
// and for callers that build claims outside Verify.
func NewClaims(values map[string]any, expired bool) *Claims {
	return &Claims{values: copyMap(values), expired: expired}
}

// Expired reports whether the token was past its exp at verification time.
// No other claim should be trusted for authorization when it is true.
func (c *Claims) Expired() bool { return c.expired }

// Subject returns the sub claim.
func (c *Claims) Subject() string { return c.String(ClaimSubject) }

// Issuer returns the iss claim.
func (c *Claims) Issuer() string { return c.String(ClaimIssuer) }

// ID returns the jti claim.
func (c *Claims) ID() string { return c.String(ClaimID) }

// ExpiresAt returns the exp claim, or the zero time.
func (c *Claims) ExpiresAt() time.Time { return c.Time(ClaimExpiration) }

// IssuedAt returns the iat claim, or the zero time.
func (c *Claims) IssuedAt() time.Time { return c.Time(ClaimIssuedAt) }

// Audience returns aud whether it was encoded as a string or a list.
func (c *Claims) Audience() []string { return c.Strings(ClaimAudience) }

// Roles returns the roles claim, accepting a comma-separated string or a list.
func (c *Claims) Roles() []string { return c.Strings(ClaimRoles) }

// Get returns the value of a claim. Nested lists and objects are copies.
func (c *Claims) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return copyValue(v), ok
}

// String returns a string claim, or "" if absent or not a string.
func (c *Claims) String(name string) string {
	s, _ := c.values[name].(string)
	return s
}

// Strings returns a claim as a string list. A string value is split on
// commas; list elements that are not strings are skipped.
func (c *Claims) Strings(name string) []string {
	switch v := c.values[name].(type) {
	case string:
		return splitList(v)
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// Time returns a NumericDate claim as a time, or the zero time. Number
// types from serializers that preserve literals (json.Number) are accepted.
func (c *Claims) Time(name string) time.Time {
	var f float64
	switch v := c.values[name].(type) {
	case float64:
		f = v
	case int64:
		return time.Unix(v, 0)
	case int:
		return time.Unix(int64(v), 0)
	case interface{ Float64() (float64, error) }:
		n, err := v.Float64()
		if err != nil {
			return time.Time{}
		}
		f = n
	default:
		return time.Time{}
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Len returns the number of claims.
func (c *Claims) Len() int { return len(c.values) }

// AsMap returns a deep copy of the claims.
func (c *Claims) AsMap() map[string]any { return copyMap(c.values) }

// SetRoles stores roles in claims as a comma-joined string, the form
// Claims.Roles reads back. Empty input leaves claims untouched.
func SetRoles(claims map[string]any, roles []string) {
	kept := make([]string, 0, len(roles))
	for _, r := range roles {
		if r = strings.TrimSpace(r); r != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) > 0 {
		claims[ClaimRoles] = strings.Join(kept, ",")
	}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

// copyValue copies the container types a JSON decoder produces.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	}
	return v
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
