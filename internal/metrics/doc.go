// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

// Package metrics holds the Prometheus collectors for Warden.
//
// All collectors are registered with the default registry through promauto
// and exposed by the /metrics route. Callers use the Record* helpers rather
// than touching the vectors directly, so label values stay consistent.
package metrics
