// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Command server runs Warden, a JWT issuance and verification service.
//
// Startup order:
//
//  1. Configuration: defaults, config file, environment (koanf)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Token service: signing key from JWT_KEY_FILE, JWT_SECRET or the
//     bundled development key
//  4. Identity store: none, Badger or Redis
//  5. Realm chain: configured users, then the identity store realm
//  6. Authorization: Casbin policy as the claims introspector
//  7. Supervisor tree: token binding, login limiter, store GC, HTTP server
//
// # Example Usage
//
// Development, using the bundled RSA key:
//
//	export REALM_USERS='admin:$2a$12$...:admin'
//	./warden
//
// Production with HS256:
//
//	export ENVIRONMENT=production
//	export JWT_ALGORITHM=HS256
//	export JWT_SECRET=$(openssl rand -base64 48)
//	export IDENTITY_STORE=badger
//	export CORS_ORIGINS=https://app.example.com
//	./warden
//
// SIGINT and SIGTERM stop the tree. The token service is unbound first,
// so requests still in flight get 503 instead of a closed service.
package main
