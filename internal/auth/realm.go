// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package auth

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/warden/internal/logging"
	"github.com/tomtom215/warden/internal/metrics"
)

var (
	// ErrNoMatch is returned when no realm accepted the credential.
	ErrNoMatch = errors.New("auth: no realm matched the credential")

	// ErrRealmUnavailable is returned by a realm whose backend is down.
	ErrRealmUnavailable = errors.New("auth: realm unavailable")

	// ErrInvalidRealm is returned when registering a nil or unnamed realm.
	ErrInvalidRealm = errors.New("auth: invalid realm")
)

// Outcome is what a realm vouches for. Its entries become token claims.
type Outcome map[string]any

// Realm authenticates credentials.
//
// Authenticate returns a non-nil Outcome on a match and (nil, nil) when the
// credential is not one it recognizes. An error means the realm could not
// decide; the chain logs it and moves on.
type Realm interface {
	Name() string
	// Priority orders realms; higher runs first.
	Priority() int
	Authenticate(ctx context.Context, cred *Credential) (Outcome, error)
}

// RealmChain tries realms in descending priority order. Realms with equal
// priority keep registration order.
//
// The realm list is copy-on-write: Authenticate reads a snapshot without
// locking, Register and Unregister serialize on a mutex.
type RealmChain struct {
	mu     sync.Mutex
	realms atomic.Pointer[[]Realm]
}

// NewRealmChain returns a chain holding realms.
func NewRealmChain(realms ...Realm) (*RealmChain, error) {
	c := &RealmChain{}
	empty := []Realm{}
	c.realms.Store(&empty)
	for _, r := range realms {
		if err := c.Register(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *RealmChain) snapshot() []Realm {
	if p := c.realms.Load(); p != nil {
		return *p
	}
	return nil
}

// Register adds realm, replacing any realm with the same name.
func (c *RealmChain) Register(realm Realm) error {
	if realm == nil || strings.TrimSpace(realm.Name()) == "" {
		return fmt.Errorf("%w: realm must be non-nil and named", ErrInvalidRealm)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	next := make([]Realm, 0, len(current)+1)
	for _, r := range current {
		if r.Name() != realm.Name() {
			next = append(next, r)
		}
	}
	next = append(next, realm)
	slices.SortStableFunc(next, func(a, b Realm) int {
		return cmp.Compare(b.Priority(), a.Priority())
	})
	c.realms.Store(&next)

	metrics.SetRealmsRegistered(len(next))
	logging.Info().Str("realm", realm.Name()).Int("priority", realm.Priority()).Int("realms", len(next)).Msg("Realm registered")
	return nil
}

// Unregister removes the realm named name and reports whether it existed.
func (c *RealmChain) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	next := slices.DeleteFunc(slices.Clone(current), func(r Realm) bool { return r.Name() == name })
	if len(next) == len(current) {
		return false
	}
	c.realms.Store(&next)

	metrics.SetRealmsRegistered(len(next))
	logging.Info().Str("realm", name).Int("realms", len(next)).Msg("Realm unregistered")
	return true
}

// Realms returns the realms in the order they are tried.
func (c *RealmChain) Realms() []Realm {
	return slices.Clone(c.snapshot())
}

// Len returns the number of registered realms.
func (c *RealmChain) Len() int {
	return len(c.snapshot())
}

// Authenticate returns the first outcome and the name of the realm that
// produced it. Realm errors and panics are logged and skipped. With no
// match, including an empty chain, it returns ErrNoMatch. A done context
// stops the walk and returns the context error.
func (c *RealmChain) Authenticate(ctx context.Context, cred *Credential) (Outcome, string, error) {
	if cred == nil {
		return nil, "", ErrNoMatch
	}

	log := logging.Ctx(ctx)
	for _, realm := range c.snapshot() {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		outcome, err := tryRealm(ctx, realm, cred)
		switch {
		case err != nil:
			var pe *panicError
			if errors.As(err, &pe) {
				metrics.RecordRealmAttempt(realm.Name(), "panic")
				log.Error().Err(err).Str("realm", realm.Name()).Msg("Realm panicked, trying next")
				continue
			}
			metrics.RecordRealmAttempt(realm.Name(), "error")
			log.Warn().Err(err).Str("realm", realm.Name()).Msg("Realm failed, trying next")
		case outcome != nil:
			metrics.RecordRealmAttempt(realm.Name(), "match")
			return outcome, realm.Name(), nil
		default:
			metrics.RecordRealmAttempt(realm.Name(), "no_match")
		}
	}
	return nil, "", ErrNoMatch
}

// panicError carries a recovered realm panic.
type panicError struct {
	value any
}

func (p *panicError) Error() string { return fmt.Sprintf("realm panicked: %v", p.value) }

func tryRealm(ctx context.Context, realm Realm, cred *Credential) (outcome Outcome, err error) {
	defer func() {
		if v := recover(); v != nil {
			outcome, err = nil, &panicError{value: v}
		}
	}()
	return realm.Authenticate(ctx, cred)
}
