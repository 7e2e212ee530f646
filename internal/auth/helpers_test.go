// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/warden/internal/identity"
	"github.com/tomtom215/warden/internal/token"
)

const testSecret = "s3cr3t-at-least-32-bytes-long"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, clock *testClock) *token.Service {
	t.Helper()
	opts := []token.Option{}
	if clock != nil {
		opts = append(opts, token.WithClock(clock.Now))
	}
	svc, err := token.NewService(token.Config{
		KeyConfig:       token.KeyConfig{Algorithm: "HS256", HMACSecret: testSecret},
		Issuer:          "warden-test",
		Expiration:      time.Minute,
		MandatoryClaims: []string{token.ClaimSubject},
	}, opts...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func issue(t *testing.T, svc *token.Service, subject string, claims map[string]any) string {
	t.Helper()
	if claims == nil {
		claims = map[string]any{}
	}
	claims[token.ClaimSubject] = subject
	raw, err := svc.Issue(subject, claims)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return raw
}

func mustHash(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := identity.HashPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return hash
}

// stubRealm is a scripted realm.
type stubRealm struct {
	name     string
	priority int
	outcome  Outcome
	err      error
	panics   bool

	mu    sync.Mutex
	calls int
}

func (s *stubRealm) Name() string  { return s.name }
func (s *stubRealm) Priority() int { return s.priority }

func (s *stubRealm) Authenticate(context.Context, *Credential) (Outcome, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.panics {
		panic("boom")
	}
	return s.outcome, s.err
}

func (s *stubRealm) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetCounter().GetValue()
}
