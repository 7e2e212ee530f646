// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// CredentialKind says how a credential was presented.
type CredentialKind int

const (
	// CredentialUsernamePassword came from form fields.
	CredentialUsernamePassword CredentialKind = iota + 1
	// CredentialBearer is an opaque bearer value.
	CredentialBearer
	// CredentialBasic came from an HTTP Basic header.
	CredentialBasic
)

// String returns the kind name used in logs.
func (k CredentialKind) String() string {
	switch k {
	case CredentialUsernamePassword:
		return "username_password"
	case CredentialBearer:
		return "bearer"
	case CredentialBasic:
		return "basic"
	default:
		return "unknown"
	}
}

// Credential is what a request presented. Secret holds the password or
// bearer value and is zeroed by Clear.
type Credential struct {
	Kind     CredentialKind
	Username string
	Secret   []byte
}

// NewPasswordCredential returns a username/password credential.
func NewPasswordCredential(username, password string) *Credential {
	return &Credential{Kind: CredentialUsernamePassword, Username: username, Secret: []byte(password)}
}

// HasPassword reports whether the credential carries a username and
// password (form or basic).
func (c *Credential) HasPassword() bool {
	return c != nil && (c.Kind == CredentialUsernamePassword || c.Kind == CredentialBasic) && c.Username != ""
}

// Clear zeroes the secret and drops the username.
func (c *Credential) Clear() {
	if c == nil {
		return
	}
	for i := range c.Secret {
		c.Secret[i] = 0
	}
	c.Secret = nil
	c.Username = ""
}

// CredentialFromRequest extracts a credential, trying form fields on POST,
// then a bearer header, then a basic header. The header name and bearer
// scheme come from cfg.
func CredentialFromRequest(r *http.Request, cfg FilterConfig) (*Credential, bool) {
	cfg = cfg.withDefaults()

	if r.Method == http.MethodPost {
		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if username != "" && password != "" {
			return NewPasswordCredential(username, password), true
		}
	}

	header := r.Header.Get(cfg.HeaderName)
	if token, ok := cutScheme(header, cfg.Scheme); ok {
		return &Credential{Kind: CredentialBearer, Secret: []byte(token)}, true
	}
	if encoded, ok := cutScheme(header, "Basic"); ok {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, false
		}
		username, password, found := strings.Cut(string(decoded), ":")
		if !found || username == "" {
			return nil, false
		}
		return &Credential{Kind: CredentialBasic, Username: username, Secret: []byte(password)}, true
	}
	return nil, false
}

// cutScheme strips "<scheme> " from a header value, matching the scheme
// case-insensitively.
func cutScheme(header, scheme string) (string, bool) {
	if len(header) <= len(scheme)+1 || header[len(scheme)] != ' ' {
		return "", false
	}
	if !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	value := strings.TrimSpace(header[len(scheme)+1:])
	return value, value != ""
}
