// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/tomtom215/warden/internal/token"
)

// ClaimsIntrospector inspects verified, unexpired claims before the
// request proceeds. A non-nil error rejects the request; the filter responds
// 401 unless the error reports its own status through StatusCoder.
type ClaimsIntrospector interface {
	Introspect(r *http.Request, claims *token.Claims) error
}

// StatusCoder is implemented by introspection errors that choose the
// response status.
type StatusCoder interface {
	StatusCode() int
}

// IntrospectorFunc adapts a function to ClaimsIntrospector.
type IntrospectorFunc func(r *http.Request, claims *token.Claims) error

// Introspect implements ClaimsIntrospector.
func (f IntrospectorFunc) Introspect(r *http.Request, claims *token.Claims) error {
	return f(r, claims)
}

// DefaultIntrospector accepts every request.
var DefaultIntrospector ClaimsIntrospector = IntrospectorFunc(func(*http.Request, *token.Claims) error {
	return nil
})

// IntrospectorRef forwards to a replaceable introspector, falling back to
// DefaultIntrospector when none is bound.
type IntrospectorRef struct {
	current atomic.Pointer[ClaimsIntrospector]
}

// NewIntrospectorRef returns a ref bound to in (which may be nil).
func NewIntrospectorRef(in ClaimsIntrospector) *IntrospectorRef {
	ref := &IntrospectorRef{}
	ref.Bind(in)
	return ref
}

// Bind replaces the current introspector. Binding nil unbinds.
func (r *IntrospectorRef) Bind(in ClaimsIntrospector) {
	if in == nil {
		r.current.Store(nil)
		return
	}
	r.current.Store(&in)
}

// Introspect implements ClaimsIntrospector.
func (r *IntrospectorRef) Introspect(req *http.Request, claims *token.Claims) error {
	if p := r.current.Load(); p != nil {
		return (*p).Introspect(req, claims)
	}
	return DefaultIntrospector.Introspect(req, claims)
}

// statusFor returns the response status for an introspection error.
func statusFor(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code < 600 {
			return code
		}
	}
	return http.StatusUnauthorized
}
