// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/warden/internal/models"
)

// Health reports the token service, identity store and realm count. It
// always returns 200; Status is "degraded" when tokens cannot be issued.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.healthStatus())
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady returns 503 until a token service is bound.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.healthStatus()
	if status.TokenService != "ready" {
		respondError(w, r, http.StatusServiceUnavailable, models.CodeServiceUnavailable, "Token service unavailable", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, status)
}

func (h *Handler) healthStatus() models.HealthStatus {
	status := models.HealthStatus{
		Status:       "healthy",
		Version:      h.version,
		TokenService: "unavailable",
		Uptime:       time.Since(h.startTime).Seconds(),
	}

	if svc, ok := h.ref.Get(); ok {
		status.TokenService = "ready"
		status.Algorithm = svc.Algorithm()
	} else {
		status.Status = "degraded"
	}
	if h.store != nil {
		status.IdentityStore = h.store.Backend()
	}
	if h.chain != nil {
		status.Realms = h.chain.Len()
	}
	return status
}
