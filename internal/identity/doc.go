// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package identity stores user records for credential realms.
//
// Two Store backends are provided: BadgerStore (embedded, the default) and
// RedisStore (shared between replicas). Passwords are kept as bcrypt
// hashes only; Authenticate performs the lookup-and-compare step used by
// realms and equalizes timing for unknown usernames.
package identity
