// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestRecordTokenVerification(t *testing.T) {
	c := TokenVerifications.WithLabelValues("signature")
	before := counterValue(t, c)

	RecordTokenVerification("signature", time.Millisecond)
	RecordTokenVerification("signature", time.Millisecond)

	if got := counterValue(t, c) - before; got != 2 {
		t.Errorf("signature verifications delta = %v, want 2", got)
	}
}

func TestRecordRealmAttempt(t *testing.T) {
	c := RealmAttempts.WithLabelValues("ldap", "error")
	before := counterValue(t, c)
	RecordRealmAttempt("ldap", "error")
	if got := counterValue(t, c) - before; got != 1 {
		t.Errorf("realm attempt delta = %v, want 1", got)
	}
}

func TestSetRealmsRegistered(t *testing.T) {
	SetRealmsRegistered(3)
	if got := gaugeValue(t, RealmsRegistered); got != 3 {
		t.Errorf("RealmsRegistered = %v, want 3", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := gaugeValue(t, APIActiveRequests)
	TrackActiveRequest(true)
	if got := gaugeValue(t, APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := gaugeValue(t, APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordIdentityStoreOp(t *testing.T) {
	ok := IdentityStoreOps.WithLabelValues("badger", "get", "success")
	bad := IdentityStoreOps.WithLabelValues("badger", "get", "error")
	okBefore, badBefore := counterValue(t, ok), counterValue(t, bad)

	RecordIdentityStoreOp("badger", "get", nil)
	RecordIdentityStoreOp("badger", "get", errors.New("boom"))

	if got := counterValue(t, ok) - okBefore; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if got := counterValue(t, bad) - badBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}
