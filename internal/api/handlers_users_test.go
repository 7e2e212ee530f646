// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/models"
)

func TestUsers_Lifecycle(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := env.login(t, "root", "admin-password")
	body := `{"password":"carol-password","roles":["user","ops"],"attributes":{"team":"infra"}}`

	w := env.do(t, http.MethodPut, "/api/v1/admin/users/carol", admin, strings.NewReader(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var view models.UserView
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &view); err != nil {
		t.Fatal(err)
	}
	if view.Username != "carol" || len(view.Roles) != 2 || view.Attributes["team"] != "infra" {
		t.Errorf("view = %+v", view)
	}
	if view.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Error("response leaks password material")
	}

	stored, err := env.store.Get(context.Background(), "carol")
	if err != nil {
		t.Fatalf("store.Get() error = %v", err)
	}
	if !identity.CheckPassword(stored.PasswordHash, []byte("carol-password")) {
		t.Error("stored hash does not match password")
	}

	w = env.do(t, http.MethodPut, "/api/v1/admin/users/carol", admin, strings.NewReader(`{"password":"another-password","disabled":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("replace status = %d, body = %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/admin/users/carol", admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var replaced models.UserView
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &replaced); err != nil {
		t.Fatal(err)
	}
	if !replaced.Disabled || len(replaced.Roles) != 0 {
		t.Errorf("replaced view = %+v", replaced)
	}

	w = env.do(t, http.MethodGet, "/api/v1/admin/users", admin, nil)
	var list models.UserList
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Usernames[0] != "carol" {
		t.Errorf("list = %+v", list)
	}

	w = env.do(t, http.MethodDelete, "/api/v1/admin/users/carol", admin, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/api/v1/admin/users/carol", admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
	w = env.do(t, http.MethodGet, "/api/v1/admin/users/carol", admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestUsers_EmptyList(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	w := env.do(t, http.MethodGet, "/api/v1/admin/users", env.login(t, "root", "admin-password"), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"usernames":[]`) {
		t.Errorf("body = %s, want empty array", w.Body.String())
	}
}

func TestUsers_BadRequests(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	admin := env.login(t, "root", "admin-password")

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", `password=x`, models.CodeBadRequest},
		{"unknown field", `{"password":"long-enough","admin":true}`, models.CodeBadRequest},
		{"trailing data", `{"password":"long-enough"}{}`, models.CodeBadRequest},
		{"short password", `{"password":"short"}`, models.CodeValidation},
		{"bad role", `{"password":"long-enough","roles":["Admin Role"]}`, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/v1/admin/users/dave", admin, strings.NewReader(tt.body))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
			if got := decodeEnvelope(t, w).Error; got == nil || got.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", got, tt.wantCode)
			}
		})
	}

	if _, err := env.store.Get(context.Background(), "dave"); err == nil {
		t.Error("rejected request created a user")
	}
}

func TestUsers_StoreDisabled(t *testing.T) {
	env := newTestEnv(t, envOptions{noStore: true})
	admin := env.login(t, "root", "admin-password")

	for _, path := range []string{"/api/v1/admin/users", "/api/v1/admin/users/carol"} {
		w := env.do(t, http.MethodGet, path, admin, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, w.Code)
		}
	}

	w := env.do(t, http.MethodGet, "/health", "", nil)
	var status models.HealthStatus
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &status); err != nil {
		t.Fatal(err)
	}
	if status.IdentityStore != "" {
		t.Errorf("identity_store = %q, want empty", status.IdentityStore)
	}
}
