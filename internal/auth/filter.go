// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/metrics"
	"github.com/tomtom215/warden/internal/models"
	"github.com/tomtom215/warden/internal/token"
)

// FilterMode selects how the filter treats requests without a token.
type FilterMode string

const (
	// FilterStatic guards a fixed route set; a missing token is a bad
	// request (400).
	FilterStatic FilterMode = "static"

	// FilterDynamic guards routes that negotiate authentication; a missing
	// token is a challenge (401).
	FilterDynamic FilterMode = "dynamic"
)

// ParseFilterMode converts a string to FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case FilterStatic:
		return FilterStatic, nil
	case FilterDynamic, "":
		return FilterDynamic, nil
	default:
		return "", fmt.Errorf("invalid filter mode: %q", s)
	}
}

// FilterConfig controls where the filter looks for the token.
type FilterConfig struct {
	// HeaderName carries "<Scheme> <token>". Default: Authorization.
	HeaderName string
	// Scheme is the header scheme. Default: Bearer.
	Scheme string
	// CookieName, when set, is checked for a raw token.
	CookieName string
	// CookieFirst checks the cookie before the header (dynamic mode only).
	CookieFirst bool
	// DisabledPaths are path prefixes where a request without any token is
	// let through unauthenticated. A token that is present is still checked.
	DisabledPaths []string
}

// DefaultFilterConfig returns the Authorization/Bearer defaults.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{HeaderName: "Authorization", Scheme: "Bearer"}
}

func (c FilterConfig) withDefaults() FilterConfig {
	if c.HeaderName == "" {
		c.HeaderName = "Authorization"
	}
	if c.Scheme == "" {
		c.Scheme = "Bearer"
	}
	return c
}

// Filter verifies tokens on incoming requests.
type Filter struct {
	mode         FilterMode
	ref          *token.Ref
	cfg          FilterConfig
	introspector ClaimsIntrospector
	audit        *logging.SecurityLogger
}

// FilterOption customizes a Filter.
type FilterOption func(*Filter)

// WithIntrospector sets the claims introspector. Default: DefaultIntrospector.
func WithIntrospector(in ClaimsIntrospector) FilterOption {
	return func(f *Filter) {
		if in != nil {
			f.introspector = in
		}
	}
}

// WithSecurityLogger sets the audit logger.
func WithSecurityLogger(l *logging.SecurityLogger) FilterOption {
	return func(f *Filter) {
		if l != nil {
			f.audit = l
		}
	}
}

// NewFilter returns a filter that resolves the token service through ref
// on every request.
func NewFilter(mode FilterMode, ref *token.Ref, cfg FilterConfig, opts ...FilterOption) *Filter {
	f := &Filter{
		mode:         mode,
		ref:          ref,
		cfg:          cfg.withDefaults(),
		introspector: DefaultIntrospector,
		audit:        logging.NewSecurityLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mode returns the filter mode.
func (f *Filter) Mode() FilterMode { return f.mode }

// ResolveToken returns the raw token from the header or cookie.
func (f *Filter) ResolveToken(r *http.Request) string {
	if f.mode == FilterDynamic && f.cfg.CookieFirst {
		if tok := f.fromCookie(r); tok != "" {
			return tok
		}
		return f.fromHeader(r)
	}
	if tok := f.fromHeader(r); tok != "" {
		return tok
	}
	return f.fromCookie(r)
}

func (f *Filter) fromHeader(r *http.Request) string {
	tok, _ := cutScheme(r.Header.Get(f.cfg.HeaderName), f.cfg.Scheme)
	return tok
}

func (f *Filter) fromCookie(r *http.Request) string {
	if f.cfg.CookieName == "" {
		return ""
	}
	c, err := r.Cookie(f.cfg.CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func (f *Filter) securityDisabled(path string) bool {
	for _, prefix := range f.cfg.DisabledPaths {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (f *Filter) decide(decision string) {
	metrics.RecordFilterDecision(string(f.mode), decision)
}

// Middleware guards next.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := f.ResolveToken(r)

		// Anonymous requests on disabled paths never need the service.
		if raw == "" && f.securityDisabled(r.URL.Path) {
			f.decide("passthrough")
			next.ServeHTTP(w, r)
			return
		}

		svc, ok := f.ref.Get()
		if !ok {
			f.decide("unavailable")
			writeError(w, r, http.StatusServiceUnavailable, models.CodeServiceUnavailable, "Token service unavailable")
			return
		}

		if raw == "" {
			f.decide("missing")
			status := http.StatusUnauthorized
			if f.mode == FilterStatic {
				status = http.StatusBadRequest
			}
			writeError(w, r, status, models.CodeMissingToken, "Missing token")
			return
		}

		claims, err := svc.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrServiceUnavailable) {
				f.decide("unavailable")
				writeError(w, r, http.StatusServiceUnavailable, models.CodeServiceUnavailable, "Token service unavailable")
				return
			}
			f.decide("rejected")
			f.audit.LogTokenRejected(clientIP(r), r.URL.Path, err.Error())
			writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Unauthorized")
			return
		}
		if claims.Expired() {
			f.decide("expired")
			f.audit.LogTokenRejected(clientIP(r), r.URL.Path, "expired")
			writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Unauthorized")
			return
		}

		sc := NewSecurityContext(claims, f.cfg.Scheme)
		ctx := ContextWithSecurity(r.Context(), sc)
		ctx = logging.ContextWithSubject(ctx, sc.Principal.Name)
		r = r.WithContext(ctx)

		if err := f.introspector.Introspect(r, claims); err != nil {
			status := statusFor(err)
			f.decide("denied")
			f.audit.LogAccessDenied(sc.Principal.Name, clientIP(r), r.URL.Path, err.Error())
			code := models.CodeUnauthorized
			message := "Unauthorized"
			if status == http.StatusForbidden {
				code, message = models.CodeForbidden, "Forbidden"
			}
			writeError(w, r, status, code, message)
			return
		}

		f.decide("allowed")
		next.ServeHTTP(w, r)
	})
}
