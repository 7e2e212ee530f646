// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"net/http"

	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/models"
)

// Me returns the principal and claims attached by the request filter.
// Requests that reached it without a token (security-disabled paths) get
// a 401.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sc, ok := auth.SecurityContextFrom(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", `Bearer realm="warden"`)
		respondError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required", nil)
		return
	}

	view := models.PrincipalView{
		Name:    sc.Principal.Name,
		Roles:   sc.Principal.Roles,
		Scheme:  sc.Scheme,
		Expired: sc.Principal.HoldingExpiredToken,
	}
	if sc.Claims != nil {
		if exp := sc.Claims.ExpiresAt(); !exp.IsZero() {
			view.ExpiresAt = &exp
		}
		view.Claims = sc.Claims.AsMap()
	}
	respondSuccess(w, r, http.StatusOK, view)
}
