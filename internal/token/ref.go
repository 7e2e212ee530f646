// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import (
	"sync/atomic"

	"github.com/tomtom215/warden/internal/logging"
)

// Ref is an optional, rebindable reference to a Service. Request handlers
// resolve it on every request and report the service as unavailable when
// nothing active is bound, instead of failing.
type Ref struct {
	svc atomic.Pointer[Service]
}

// NewRef returns a Ref bound to svc (which may be nil).
func NewRef(svc *Service) *Ref {
	r := &Ref{}
	if svc != nil {
		r.svc.Store(svc)
	}
	return r
}

// Bind makes svc the current service.
func (r *Ref) Bind(svc *Service) {
	r.svc.Store(svc)
	logging.Info().Msg("Token service bound")
}

// Unbind clears the reference only if svc is the current service, so a
// late unbind of a replaced service does not drop its successor.
func (r *Ref) Unbind(svc *Service) bool {
	if r.svc.CompareAndSwap(svc, nil) {
		logging.Info().Msg("Token service unbound")
		return true
	}
	return false
}

// Get returns the bound service if it is active.
func (r *Ref) Get() (*Service, bool) {
	if r == nil {
		return nil, false
	}
	svc := r.svc.Load()
	if svc == nil || svc.State() != StateActive {
		return nil, false
	}
	return svc, true
}
