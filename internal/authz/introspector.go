// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package authz

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/token"
)

// DeniedError is returned when the policy does not allow a request.
type DeniedError struct {
	Subject string
	Object  string
	Action  string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authz: %s may not %s %s", e.Subject, e.Action, e.Object)
}

// StatusCode reports 403 to the request filter.
func (e *DeniedError) StatusCode() int { return http.StatusForbidden }

// EnforcementError wraps a policy evaluation failure.
type EnforcementError struct {
	Err error
}

func (e *EnforcementError) Error() string { return "authz: " + e.Err.Error() }

func (e *EnforcementError) Unwrap() error { return e.Err }

// StatusCode reports 500 to the request filter.
func (e *EnforcementError) StatusCode() int { return http.StatusInternalServerError }

// Introspector authorizes verified claims against the enforcer. It
// satisfies auth.ClaimsIntrospector.
type Introspector struct {
	enforcer *Enforcer
}

// NewIntrospector returns an introspector backed by e.
func NewIntrospector(e *Enforcer) *Introspector {
	return &Introspector{enforcer: e}
}

// Introspect checks the token subject and roles against the request path
// and method.
func (i *Introspector) Introspect(r *http.Request, claims *token.Claims) error {
	start := time.Now()
	subject := claims.Subject()
	object := r.URL.Path
	action := MethodToAction(r.Method)

	allowed, via, err := i.enforcer.EnforceWithRoles(subject, claims.Roles(), object, action)
	switch {
	case err != nil:
		RecordAuthzDecision(action, "error", time.Since(start))
		logging.Ctx(r.Context()).Error().Err(err).Str("object", object).Msg("Authorization error")
		return &EnforcementError{Err: err}
	case !allowed:
		RecordAuthzDecision(action, "deny", time.Since(start))
		return &DeniedError{Subject: subject, Object: object, Action: action}
	}

	RecordAuthzDecision(action, "allow", time.Since(start))
	logging.Ctx(r.Context()).Debug().Str("object", object).Str("action", action).Str("granted_by", via).Msg("Authorized")
	return nil
}

// MethodToAction maps HTTP methods to policy actions.
func MethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return "read"
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
