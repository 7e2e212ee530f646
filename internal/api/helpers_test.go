// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/authz"
	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/models"
	"github.com/tomtom215/warden/internal/token"
)

const testSecret = "api-test-secret-at-least-32-bytes"

// testEnv is a fully wired router backed by an in-memory identity store.
type testEnv struct {
	ref    *token.Ref
	svc    *token.Service
	store  *identity.BadgerStore
	server http.Handler
}

type envOptions struct {
	noStore    bool
	noAuthz    bool
	unbound    bool
	rateLimit  int
	adminGuard bool

	metricsGuard func(http.Handler) http.Handler
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	svc, err := token.NewService(token.Config{
		KeyConfig:       token.KeyConfig{Algorithm: "HS256", HMACSecret: testSecret},
		Issuer:          "warden-test",
		Expiration:      time.Minute,
		MandatoryClaims: []string{token.ClaimSubject},
	})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	ref := token.NewRef(nil)
	if !opts.unbound {
		ref.Bind(svc)
	}

	hash, err := identity.HashPassword([]byte("admin-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	userHash, err := identity.HashPassword([]byte("user-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	realm, err := auth.NewCredentialsRealm("credentials", auth.DefaultRealmPriority,
		auth.UserEntry{Username: "root", PasswordHash: hash, Roles: []string{"admin"}},
		auth.UserEntry{Username: "bob", PasswordHash: userHash, Roles: []string{"user"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	chain, err := auth.NewRealmChain(realm)
	if err != nil {
		t.Fatal(err)
	}

	env := &testEnv{ref: ref, svc: svc}
	var store identity.Store
	if !opts.noStore {
		env.store, err = identity.OpenBadger(identity.BadgerOptions{InMemory: true})
		if err != nil {
			t.Fatalf("OpenBadger() error = %v", err)
		}
		t.Cleanup(func() { _ = env.store.Close() })
		store = env.store
	}

	filterOpts := []auth.FilterOption{}
	if !opts.noAuthz {
		enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
		if err != nil {
			t.Fatalf("NewEnforcer() error = %v", err)
		}
		t.Cleanup(enforcer.Close)
		filterOpts = append(filterOpts, auth.WithIntrospector(authz.NewIntrospector(enforcer)))
	}
	filter := auth.NewFilter(auth.FilterDynamic, ref, auth.DefaultFilterConfig(), filterOpts...)

	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	if opts.rateLimit > 0 {
		mwCfg.RateLimitRequests = opts.rateLimit
	} else {
		mwCfg.RateLimitDisabled = true
	}

	cfg := RouterConfig{
		Filter:       filter,
		TokenHandler: auth.NewTokenHandler(chain, ref, auth.CookieConfig{}, nil),
		Middleware:   NewChiMiddleware(mwCfg),
	}
	if opts.metricsGuard != nil {
		cfg.MetricsGuard = opts.metricsGuard
	}
	if opts.adminGuard {
		cfg.AdminGuard = auth.RequireRole("admin")
	}
	handler := NewHandler(HandlerConfig{
		Ref:        ref,
		Chain:      chain,
		Store:      store,
		BcryptCost: bcrypt.MinCost,
		Version:    "test",
	})
	env.server = NewRouter(handler, cfg).SetupChi()
	return env
}

// login posts to the token endpoint and returns the token.
func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/auth/jwt/create", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("login(%s) status = %d, body = %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Data models.TokenResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return resp.Data.Token
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		r.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, r)
	return w
}

// envelope decodes an APIResponse, keeping Data raw.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, w.Body.String())
	}
	return env
}
