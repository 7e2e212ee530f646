// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package token

import "testing"

func TestRef_BindUnbind(t *testing.T) {
	r := NewRef(nil)
	if _, ok := r.Get(); ok {
		t.Fatal("Get() on an empty Ref reported a service")
	}

	first := newTestService(t, hs256Config())
	second := newTestService(t, hs256Config())

	r.Bind(first)
	if got, ok := r.Get(); !ok || got != first {
		t.Fatalf("Get() = %p, %v; want first", got, ok)
	}

	r.Bind(second)
	if r.Unbind(first) {
		t.Error("Unbind(first) succeeded after second was bound")
	}
	if got, ok := r.Get(); !ok || got != second {
		t.Errorf("Get() = %p, %v; want second", got, ok)
	}

	if !r.Unbind(second) {
		t.Error("Unbind(second) = false, want true")
	}
	if _, ok := r.Get(); ok {
		t.Error("Get() after Unbind reported a service")
	}
}

func TestRef_ClosedServiceIsUnavailable(t *testing.T) {
	svc := newTestService(t, hs256Config())
	r := NewRef(svc)
	if _, ok := r.Get(); !ok {
		t.Fatal("Get() = false for an active service")
	}
	_ = svc.Close()
	if _, ok := r.Get(); ok {
		t.Error("Get() = true for a closed service")
	}
}

func TestRef_NilReceiver(t *testing.T) {
	var r *Ref
	if _, ok := r.Get(); ok {
		t.Error("nil Ref Get() = true")
	}
}
