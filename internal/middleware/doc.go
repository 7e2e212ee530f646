// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package middleware provides HTTP middleware components for the chi router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it in the
    logging context so every log line of the request carries it
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern
  - SecurityHeaders: nosniff, frame denial, referrer policy and HSTS

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.PrometheusMetrics)

Token verification is not done here; see the auth package.
*/
package middleware
