// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"net/http"
	"slices"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/models"
	"github.com/tomtom215/warden/internal/token"
)

// RequireBasic guards next with HTTP Basic credentials checked against
// chain. When role is non-empty the matching outcome must carry it. Used
// for operator endpoints such as /metrics that scrapers reach without a
// token.
func RequireBasic(chain *RealmChain, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred, ok := CredentialFromRequest(r, FilterConfig{})
			if !ok || cred.Kind != CredentialBasic {
				basicChallenge(w, r)
				return
			}

			outcome, _, err := chain.Authenticate(r.Context(), cred)
			cred.Clear()
			if err != nil {
				basicChallenge(w, r)
				return
			}
			if role != "" {
				claims := token.NewClaims(claimsFromOutcome(outcome), false)
				if !slices.Contains(claims.Roles(), role) {
					writeError(w, r, http.StatusForbidden, models.CodeForbidden, "Forbidden")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func basicChallenge(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="warden", charset="UTF-8"`)
	writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse(models.CodeUnauthorized, "Unauthorized", logging.RequestIDFromContext(r.Context())))
}

// RequireRole rejects requests whose security context lacks role. It runs
// behind the filter; requests without a context get a 401.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := SecurityContextFrom(r.Context())
			if !ok {
				writeError(w, r, http.StatusUnauthorized, models.CodeUnauthorized, "Unauthorized")
				return
			}
			if !sc.Principal.HasRole(role) {
				writeError(w, r, http.StatusForbidden, models.CodeForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
