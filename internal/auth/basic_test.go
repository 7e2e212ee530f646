// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/warden/internal/token"
)

func TestRequireBasic(t *testing.T) {
	realm, err := NewCredentialsRealm("config", DefaultRealmPriority,
		UserEntry{Username: "ops", PasswordHash: mustHash(t, "pw"), Roles: []string{"metrics"}},
		UserEntry{Username: "guest", PasswordHash: mustHash(t, "pw")},
	)
	if err != nil {
		t.Fatal(err)
	}
	guard := RequireBasic(newChain(t, realm), "metrics")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"bearer", "Bearer abc", http.StatusUnauthorized},
		{"wrong password", basicHeader("ops", "nope"), http.StatusUnauthorized},
		{"missing role", basicHeader("guest", "pw"), http.StatusForbidden},
		{"ok", basicHeader("ops", "pw"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			guard.ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && !strings.HasPrefix(w.Header().Get("WWW-Authenticate"), "Basic") {
				t.Errorf("WWW-Authenticate = %q", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole("admin")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name  string
		roles []string
		noCtx bool
		want  int
	}{
		{"no context", nil, true, http.StatusUnauthorized},
		{"no roles", nil, false, http.StatusForbidden},
		{"other role", []string{"user"}, false, http.StatusForbidden},
		{"admin", []string{"user", "admin"}, false, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
			if !tt.noCtx {
				values := map[string]any{"sub": "alice"}
				if tt.roles != nil {
					token.SetRoles(values, tt.roles)
				}
				sc := NewSecurityContext(token.NewClaims(values, false), "Bearer")
				r = r.WithContext(ContextWithSecurity(r.Context(), sc))
			}
			w := httptest.NewRecorder()
			guard.ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
