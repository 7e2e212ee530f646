// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/warden/internal/logging"
)

// Key prefix for BadgerDB storage
const userKeyPrefix = "user:"

// BadgerStore implements Store on BadgerDB.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
	now    func() time.Time
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM (tests, ephemeral deployments).
	InMemory bool
}

// OpenBadger opens a database and returns a store that closes it on Close.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if strings.TrimSpace(opts.Path) == "" {
			return nil, errors.New("identity: badger path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	logging.Info().Str("path", opts.Path).Bool("in_memory", opts.InMemory).Msg("Identity store opened")

	s := NewBadgerStore(db)
	s.ownsDB = true
	return s, nil
}

// NewBadgerStore wraps an already open database. Close does not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, now: time.Now}
}

// Backend implements Store.
func (s *BadgerStore) Backend() string { return "badger" }

// DB exposes the underlying database for maintenance (value log GC).
func (s *BadgerStore) DB() *badger.DB { return s.db }

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, username string) (*User, error) {
	var user User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	record(s.Backend(), "get", err)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Put implements Store. CreatedAt is preserved across replacements.
func (s *BadgerStore) Put(_ context.Context, user *User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + user.Username)
		rec := *user
		rec.UpdatedAt = s.now().UTC()
		rec.CreatedAt = rec.UpdatedAt

		item, err := txn.Get(key)
		switch {
		case err == nil:
			var prev User
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &prev) }); err != nil {
				return fmt.Errorf("read previous user: %w", err)
			}
			rec.CreatedAt = prev.CreatedAt
		case !errors.Is(err, badger.ErrKeyNotFound):
			return fmt.Errorf("get user: %w", err)
		}

		data, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set user: %w", err)
		}
		return nil
	})
	record(s.Backend(), "put", err)
	return err
}

// Delete implements Store.
func (s *BadgerStore) Delete(_ context.Context, username string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		key := []byte(userKeyPrefix + username)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrUserNotFound
		} else if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if err := txn.Delete(key); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	record(s.Backend(), "delete", err)
	return err
}

// List implements Store. Badger iterates keys in byte order.
func (s *BadgerStore) List(_ context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(userKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), userKeyPrefix))
		}
		return nil
	})
	record(s.Backend(), "list", err)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return names, nil
}

// RunGC runs one value log garbage collection pass. badger.ErrNoRewrite
// (nothing to collect) is not an error.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
