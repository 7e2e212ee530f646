// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package api provides the HTTP layer for Warden.

Routes:

  - GET  /health, /health/live, /health/ready
  - GET  /metrics (optionally behind HTTP Basic auth and a role)
  - POST /auth/jwt/create: token endpoint (auth.TokenHandler)
  - GET  /api/v1/me: the caller's principal and claims
  - GET  /api/v1/admin/users: list identity store usernames
  - GET, PUT, DELETE /api/v1/admin/users/{username}: identity records

Everything under /api/v1 passes the request filter (auth.Filter), which
verifies the token and runs the claims introspector. With authorization
enabled the introspector is the Casbin policy, so the admin routes
require the admin role.

Middleware Stack:

	RequestID -> RealIP -> Recoverer -> SecurityHeaders -> CORS -> PrometheusMetrics
	  /auth:   per-IP rate limit
	  /api/v1: per-IP rate limit -> Filter

All JSON responses use the models.APIResponse envelope.
*/
package api
