// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package logging provides centralized zerolog-based structured logging for Warden.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - Request-scoped loggers (Ctx) carrying request_id and the token subject
//   - A SecurityLogger for authentication audit events with sanitized fields
//   - An slog.Handler adapter so the suture supervisor logs through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Service: "warden"})
//
//	logging.Info().Str("alg", "RS256").Msg("Token service active")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Realm failed")
//
// # Sensitive Data
//
// Tokens, secrets and passwords are never logged verbatim. Use SanitizeToken,
// SanitizeUsername and SanitizeValue, or the SecurityLogger helpers, which
// apply them automatically.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is dropped.
package logging
