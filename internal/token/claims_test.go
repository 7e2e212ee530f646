// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"
	"time"
)

func TestClaims_Accessors(t *testing.T) {
	c := NewClaims(map[string]any{
		"sub":   "alice",
		"iss":   "warden",
		"jti":   "id-1",
		"aud":   "api",
		"exp":   float64(1767225600),
		"iat":   int64(1767222000),
		"roles": "admin, editor,,",
		"n":     json.Number("1767225600.5"),
	}, false)

	if c.Subject() != "alice" || c.Issuer() != "warden" || c.ID() != "id-1" {
		t.Errorf("registered claims = %s/%s/%s", c.Subject(), c.Issuer(), c.ID())
	}
	if got := c.Audience(); !slices.Equal(got, []string{"api"}) {
		t.Errorf("Audience() = %v, want [api]", got)
	}
	if got := c.Roles(); !slices.Equal(got, []string{"admin", "editor"}) {
		t.Errorf("Roles() = %v, want [admin editor]", got)
	}
	if got := c.ExpiresAt(); !got.Equal(time.Unix(1767225600, 0)) {
		t.Errorf("ExpiresAt() = %v", got)
	}
	if got := c.IssuedAt(); !got.Equal(time.Unix(1767222000, 0)) {
		t.Errorf("IssuedAt() = %v", got)
	}
	if got := c.Time("n"); !got.Equal(time.Unix(1767225600, 5e8)) {
		t.Errorf("Time(n) = %v", got)
	}
	if !c.Time("missing").IsZero() || !c.Time("sub").IsZero() {
		t.Error("Time() should be zero for absent or non-numeric claims")
	}
	if c.Expired() {
		t.Error("Expired() = true, want false")
	}
}

func TestClaims_ListForms(t *testing.T) {
	c := NewClaims(map[string]any{
		"aud":   []any{"a", 7, "b", " "},
		"roles": []string{"viewer"},
	}, true)

	if got := c.Audience(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Audience() = %v, want [a b]", got)
	}
	if got := c.Roles(); !slices.Equal(got, []string{"viewer"}) {
		t.Errorf("Roles() = %v, want [viewer]", got)
	}
	if !c.Expired() {
		t.Error("Expired() = false, want true")
	}
}

func TestClaims_ReadOnly(t *testing.T) {
	src := map[string]any{"sub": "alice"}
	c := NewClaims(src, false)

	src["sub"] = "mallory"
	if c.Subject() != "alice" {
		t.Error("Claims observed a mutation of the source map")
	}

	m := c.AsMap()
	m["sub"] = "mallory"
	if c.Subject() != "alice" {
		t.Error("Claims observed a mutation of the AsMap copy")
	}
}

func TestClaims_ReadOnlyNested(t *testing.T) {
	src := map[string]any{
		"sub": "alice",
		"aud": []any{"a", "b"},
		"ext": map[string]any{"k": "v", "list": []any{"x"}},
	}
	c := NewClaims(src, false)

	src["aud"].([]any)[0] = "evil"
	src["ext"].(map[string]any)["k"] = "evil"

	m := c.AsMap()
	m["aud"].([]any)[1] = "evil"
	m["ext"].(map[string]any)["list"].([]any)[0] = "evil"

	raw, _ := c.Get("ext")
	raw.(map[string]any)["k"] = "evil"
	aud, _ := c.Get("aud")
	aud.([]any)[0] = "evil"

	if got := c.Audience(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Audience() = %v, want [a b]", got)
	}
	ext, _ := c.Get("ext")
	want := map[string]any{"k": "v", "list": []any{"x"}}
	if !reflect.DeepEqual(ext, want) {
		t.Errorf("ext = %v, want %v", ext, want)
	}
}

func TestSetRoles(t *testing.T) {
	claims := map[string]any{}
	SetRoles(claims, []string{"admin", " ", "ops "})
	if claims[ClaimRoles] != "admin,ops" {
		t.Errorf("roles = %v, want admin,ops", claims[ClaimRoles])
	}

	empty := map[string]any{}
	SetRoles(empty, []string{" "})
	if _, ok := empty[ClaimRoles]; ok {
		t.Error("SetRoles() stored an empty roles claim")
	}
}
