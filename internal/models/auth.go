// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package models

import "time"

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// PrincipalView describes the caller of a protected route.
type PrincipalView struct {
	Name      string         `json:"name"`
	Roles     []string       `json:"roles,omitempty"`
	Scheme    string         `json:"scheme"`
	Expired   bool           `json:"expired"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Claims    map[string]any `json:"claims,omitempty"`
}

// UserRequest creates or replaces an identity record.
type UserRequest struct {
	Password   string            `json:"password" validate:"required,min=8,max=1024"`
	Roles      []string          `json:"roles" validate:"max=32,dive,role"`
	Attributes map[string]string `json:"attributes,omitempty" validate:"max=32"`
	Disabled   bool              `json:"disabled,omitempty"`
}

// UserView is an identity record without its password hash.
type UserView struct {
	Username   string            `json:"username"`
	Roles      []string          `json:"roles,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Disabled   bool              `json:"disabled"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// UserList is returned when listing identity records.
type UserList struct {
	Usernames []string `json:"usernames"`
	Count     int      `json:"count"`
}
