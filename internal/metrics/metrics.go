// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the token pipeline:
// - HTTP endpoint latency and throughput
// - Token issuance and verification outcomes
// - Realm chain attempts
// - Request filter decisions
// - Identity store circuit breakers

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warden_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warden_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Token Metrics
	TokensIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_tokens_issued_total",
			Help: "Total number of tokens issued",
		},
		[]string{"alg"},
	)

	// TokenIssueFailures counts issuance attempts that produced no token.
	// Labels:
	//   - reason: "invalid_argument", "invalid_claims", "codec", "signing", "closed"
	TokenIssueFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_token_issue_failures_total",
			Help: "Total number of failed token issuance attempts",
		},
		[]string{"reason"},
	)

	// TokenVerifications counts verify calls by outcome.
	// Labels:
	//   - outcome: "valid", "expired", "malformed", "algorithm", "signature",
	//     "codec", "claims", "closed"
	TokenVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_token_verifications_total",
			Help: "Total number of token verifications by outcome",
		},
		[]string{"outcome"},
	)

	TokenVerifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warden_token_verify_duration_seconds",
			Help:    "Duration of token verification in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
		},
	)

	// Realm Metrics
	// Labels:
	//   - result: "match", "no_match", "error", "panic"
	RealmAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_realm_attempts_total",
			Help: "Total number of realm authentication attempts",
		},
		[]string{"realm", "result"},
	)

	RealmsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warden_realms_registered",
			Help: "Number of realms currently registered in the chain",
		},
	)

	// Filter Metrics
	// Labels:
	//   - mode: "static", "dynamic"
	//   - decision: "allowed", "anonymous", "unavailable", "missing_token",
	//     "rejected", "expired", "denied"
	FilterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_filter_decisions_total",
			Help: "Total number of request filter decisions",
		},
		[]string{"mode", "decision"},
	)

	// Login Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_login_attempts_total",
			Help: "Total number of token endpoint login attempts",
		},
		[]string{"outcome"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "warden_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_circuit_breaker_requests_total",
			Help: "Total number of requests through a circuit breaker",
		},
		[]string{"name", "result"},
	)

	// Identity Store Metrics
	IdentityStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warden_identity_store_operations_total",
			Help: "Total number of identity store operations",
		},
		[]string{"backend", "operation", "result"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements active request counter
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTokenIssued records a successfully issued token.
func RecordTokenIssued(alg string) {
	TokensIssued.WithLabelValues(alg).Inc()
}

// RecordTokenIssueFailure records an issuance that produced no token.
func RecordTokenIssueFailure(reason string) {
	TokenIssueFailures.WithLabelValues(reason).Inc()
}

// RecordTokenVerification records the outcome and duration of a verify call.
func RecordTokenVerification(outcome string, duration time.Duration) {
	TokenVerifications.WithLabelValues(outcome).Inc()
	TokenVerifyDuration.Observe(duration.Seconds())
}

// RecordRealmAttempt records one realm invocation inside the chain.
func RecordRealmAttempt(realm, result string) {
	RealmAttempts.WithLabelValues(realm, result).Inc()
}

// SetRealmsRegistered updates the registered realm gauge.
func SetRealmsRegistered(n int) {
	RealmsRegistered.Set(float64(n))
}

// RecordFilterDecision records a request filter decision.
func RecordFilterDecision(mode, decision string) {
	FilterDecisions.WithLabelValues(mode, decision).Inc()
}

// RecordLoginAttempt records a token endpoint outcome.
func RecordLoginAttempt(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordIdentityStoreOp records an identity store operation.
func RecordIdentityStoreOp(backend, operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	IdentityStoreOps.WithLabelValues(backend, operation, result).Inc()
}
