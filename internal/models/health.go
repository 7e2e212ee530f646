// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package models

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status        string  `json:"status"` // healthy or degraded
	Version       string  `json:"version"`
	TokenService  string  `json:"token_service"` // ready or unavailable
	Algorithm     string  `json:"algorithm,omitempty"`
	IdentityStore string  `json:"identity_store,omitempty"`
	Realms        int     `json:"realms"`
	Uptime        float64 `json:"uptime_seconds"`
}
