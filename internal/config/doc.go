// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

/*
Package config provides centralized configuration management for Warden.

Configuration is loaded with Koanf v2 in three layers, each overriding the
previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths
 3. Environment variables, through an explicit name mapping table

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8080)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging, production

Tokens:
  - JWT_ALGORITHM (default: RS256), JWT_SECRET, JWT_KEY_FILE, JWT_PUBLIC_KEY_FILE
  - JWT_USE_DEFAULT_KEY: sign with the bundled RSA key (refused in production)
  - JWT_ISSUER (default: warden), JWT_EXPIRATION (default: 1h), JWT_LEEWAY
  - JWT_MANDATORY_CLAIMS (default: sub)
  - JWT_COOKIE_NAME and JWT_COOKIE_*: token cookie set by the token endpoint

Filter:
  - FILTER_MODE: static (missing token is 400) or dynamic (401)
  - FILTER_HEADER, FILTER_SCHEME, FILTER_COOKIE, FILTER_COOKIE_FIRST
  - FILTER_DISABLED_PATHS: comma-separated path prefixes

Realms:
  - REALM_USERS: semicolon-separated "user:bcrypt-hash[:role1,role2]" entries
  - IDENTITY_STORE: none, badger or redis, with IDENTITY_* settings

Authorization and limits:
  - AUTHZ_ENABLED and CASBIN_*: policy checks after token verification
  - RATE_LIMIT_*, DISABLE_RATE_LIMIT: per-IP API limit
  - LOGIN_RATE_BURST, LOGIN_RATE_WINDOW: per-username login throttle
  - CORS_ORIGINS, METRICS_ROLE

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatalf("Failed to load config: %v", err)
	}
	fmt.Printf("Listening on %s\n", cfg.Server.ListenAddr())

# Validation

Validate rejects settings that would fail at runtime or are unsafe in
production: an HMAC algorithm without a secret, the bundled default key
or a wildcard CORS origin with ENVIRONMENT=production, and out-of-range
ports, limits and bcrypt costs.
*/
package config
