// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/warden/internal/config"
	"github.com/tomtom215/warden/internal/identity"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	adminHash, err := identity.HashPassword([]byte("admin-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userHash, err := identity.HashPassword([]byte("user-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &config.Config{
		Server: config.ServerConfig{Environment: "development", ShutdownTimeout: time.Second},
		JWT: config.JWTConfig{
			Algorithm:       "HS256",
			Secret:          "wire-test-secret-that-is-32-bytes",
			Issuer:          "warden",
			Expiration:      time.Hour,
			MandatoryClaims: []string{"sub"},
		},
		Filter: config.FilterConfig{Mode: "dynamic", Header: "Authorization", Scheme: "Bearer"},
		Realms: config.RealmsConfig{
			Name:     "credentials",
			Priority: -1,
			Users: []string{
				"root:" + string(adminHash) + ":admin",
				"bob:" + string(userHash) + ":user",
			},
		},
		IdentityStore: config.IdentityStoreConfig{
			Backend:        "badger",
			Name:           "identity-store",
			Priority:       10,
			BadgerInMemory: true,
			BcryptCost:     bcrypt.MinCost,
			Breaker: config.BreakerConfig{
				Enabled: true, MaxRequests: 3, Interval: time.Minute,
				Timeout: 30 * time.Second, MinRequests: 5, FailureRatio: 0.6,
			},
		},
		Authz:     config.AuthzConfig{Enabled: true, DefaultRole: "user", CacheTTL: time.Minute},
		RateLimit: config.RateLimitConfig{Disabled: true, LoginBurst: 5, LoginWindow: time.Minute},
		Security:  config.SecurityConfig{CORSOrigins: []string{"*"}},
	}
}

func build(t *testing.T, cfg *config.Config) *components {
	t.Helper()
	c, err := buildComponents(context.Background(), cfg, "test")
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func login(t *testing.T, h http.Handler, username, password string) (string, int) {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/auth/jwt/create", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Data.Token, w.Code
}

func get(h http.Handler, path, bearer string) int {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w.Code
}

func TestBuildComponents_EndToEnd(t *testing.T) {
	c := build(t, testConfig(t))

	if _, code := login(t, c.handler, "root", "admin-password"); code != http.StatusServiceUnavailable {
		t.Fatalf("login before bind = %d, want 503", code)
	}
	c.ref.Bind(c.tokenService)

	if c.chain.Len() != 2 {
		t.Errorf("realms = %d, want credentials and identity store", c.chain.Len())
	}
	if c.badger == nil || c.store.Backend() != "badger" {
		t.Error("badger store not wired")
	}

	admin, code := login(t, c.handler, "root", "admin-password")
	if code != http.StatusOK {
		t.Fatalf("admin login = %d", code)
	}
	user, code := login(t, c.handler, "bob", "user-password")
	if code != http.StatusOK {
		t.Fatalf("user login = %d", code)
	}

	tests := []struct {
		path   string
		bearer string
		want   int
	}{
		{"/api/v1/me", user, http.StatusOK},
		{"/api/v1/me", "", http.StatusUnauthorized},
		{"/api/v1/admin/users", user, http.StatusForbidden},
		{"/api/v1/admin/users", admin, http.StatusOK},
		{"/health/ready", "", http.StatusOK},
		{"/metrics", "", http.StatusOK},
	}
	for _, tt := range tests {
		if got := get(c.handler, tt.path, tt.bearer); got != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, got, tt.want)
		}
	}

	// A user created through the admin API can log in via the store realm.
	r := httptest.NewRequest(http.MethodPut, "/api/v1/admin/users/carol", strings.NewReader(`{"password":"carol-password","roles":["user"]}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+admin)
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("create user = %d, body = %s", w.Code, w.Body.String())
	}
	if _, code := login(t, c.handler, "carol", "carol-password"); code != http.StatusOK {
		t.Errorf("store user login = %d", code)
	}
}

func TestBuildComponents_AuthzDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Authz.Enabled = false
	c := build(t, cfg)
	c.ref.Bind(c.tokenService)

	user, _ := login(t, c.handler, "bob", "user-password")
	admin, _ := login(t, c.handler, "root", "admin-password")
	if got := get(c.handler, "/api/v1/admin/users", user); got != http.StatusForbidden {
		t.Errorf("user = %d, want 403", got)
	}
	if got := get(c.handler, "/api/v1/admin/users", admin); got != http.StatusOK {
		t.Errorf("admin = %d, want 200", got)
	}
}

func TestBuildComponents_MetricsRole(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.MetricsRole = "admin"
	c := build(t, cfg)

	if got := get(c.handler, "/metrics", ""); got != http.StatusUnauthorized {
		t.Errorf("anonymous /metrics = %d, want 401", got)
	}

	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.SetBasicAuth("root", "admin-password")
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("admin /metrics = %d, want 200", w.Code)
	}
}

func TestBuildComponents_NoStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.IdentityStore.Backend = "none"
	c := build(t, cfg)

	if c.store != nil || c.badger != nil {
		t.Error("store opened for backend none")
	}
	if c.chain.Len() != 1 {
		t.Errorf("realms = %d, want 1", c.chain.Len())
	}
}

func TestBuildComponents_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown backend", func(c *config.Config) { c.IdentityStore.Backend = "etcd" }, "unknown backend"},
		{"bad realm entry", func(c *config.Config) { c.Realms.Users = []string{"nohash"} }, "realm user 0"},
		{"bad filter mode", func(c *config.Config) { c.Filter.Mode = "strict" }, "filter mode"},
		{"missing secret", func(c *config.Config) { c.JWT.Secret = "" }, "token service"},
		{"missing policy file", func(c *config.Config) { c.Authz.PolicyPath = "/nonexistent/policy.csv" }, "authorization"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			c, err := buildComponents(context.Background(), cfg, "test")
			if err == nil {
				c.Close()
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
			if c != nil {
				t.Error("components returned with error")
			}
		})
	}
}
