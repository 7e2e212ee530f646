// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts decisions by action and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"action", "decision"},
	)

	// AuthzDecisionDuration tracks the latency of authorization decisions.
	AuthzDecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warden_authz_decision_duration_seconds",
			Help:    "Duration of authorization decisions in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	// AuthzCacheLookups counts decision cache hits and misses.
	AuthzCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_authz_cache_lookups_total",
			Help: "Total number of authorization cache lookups",
		},
		[]string{"result"},
	)
)

// RecordAuthzDecision records one decision ("allow", "deny" or "error").
func RecordAuthzDecision(action, decision string, duration time.Duration) {
	AuthzDecisionsTotal.WithLabelValues(action, decision).Inc()
	AuthzDecisionDuration.Observe(duration.Seconds())
}

func recordCache(hit bool) {
	if hit {
		AuthzCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	AuthzCacheLookups.WithLabelValues("miss").Inc()
}
