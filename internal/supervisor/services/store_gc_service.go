// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package services

import (
	"context"
	"time"

	"github.com/tomtom215/warden/internal/logging"
)

// defaultDiscardRatio is the Badger value log GC threshold.
const defaultDiscardRatio = 0.5

// GarbageCollector is satisfied by *identity.BadgerStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService runs value log garbage collection on an interval. A GC
// error is logged and the loop continues.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService returns a GC loop for store. A non-positive interval
// defaults to 10 minutes.
func NewStoreGCService(store GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:        store,
		interval:     interval,
		discardRatio: defaultDiscardRatio,
		name:         "identity-store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StoreGCService) collect() {
	start := time.Now()
	if err := s.store.RunGC(s.discardRatio); err != nil {
		logging.Warn().Err(err).Msg("Identity store GC failed")
		return
	}
	logging.Debug().Dur("duration", time.Since(start)).Msg("Identity store GC pass complete")
}

// String implements fmt.Stringer.
func (s *StoreGCService) String() string {
	return s.name
}
