// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/warden/internal/logging"
)

// RedisOptions configures ConnectRedis.
type RedisOptions struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string
	// KeyPrefix namespaces identity keys. Default: "warden:user:".
	KeyPrefix string
	// RetryAttempts is the number of pings before giving up. Default: 3.
	RetryAttempts int
	// RetryInterval is the wait between pings. Default: 2s.
	RetryInterval time.Duration
	// ScanBatchSize is the SCAN COUNT hint used by List. Default: 500.
	ScanBatchSize int64
}

// RedisStore implements Store on Redis. Records are JSON strings keyed by
// prefix + username.
type RedisStore struct {
	client    redis.UniversalClient
	prefix    string
	scanBatch int64
	now       func() time.Time
}

// ConnectRedis parses opts.URL, pings the server with retries and returns a
// store owning the client.
func ConnectRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, errors.New("identity: redis URL is required")
	}
	ropts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("identity: parse redis URL: %w", err)
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 3
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 2 * time.Second
	}

	client := redis.NewClient(ropts)
	for attempt := 1; ; attempt++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			break
		}
		if attempt >= opts.RetryAttempts {
			_ = client.Close()
			return nil, fmt.Errorf("identity: redis not ready after %d attempts: %w", attempt, err)
		}
		logging.Warn().Err(err).Int("attempt", attempt).Msg("Redis ping failed, retrying")
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(opts.RetryInterval):
		}
	}

	logging.Info().Str("addr", ropts.Addr).Int("db", ropts.DB).Msg("Identity store connected to Redis")
	return NewRedisStore(client, opts.KeyPrefix, opts.ScanBatchSize), nil
}

// NewRedisStore wraps an existing client. Close closes the client.
func NewRedisStore(client redis.UniversalClient, prefix string, scanBatch int64) *RedisStore {
	if prefix == "" {
		prefix = "warden:user:"
	}
	if scanBatch <= 0 {
		scanBatch = 500
	}
	return &RedisStore{client: client, prefix: prefix, scanBatch: scanBatch, now: time.Now}
}

// Backend implements Store.
func (s *RedisStore) Backend() string { return "redis" }

// Ping checks connectivity, for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, username string) (*User, error) {
	data, err := s.client.Get(ctx, s.prefix+username).Bytes()
	if errors.Is(err, redis.Nil) {
		err = ErrUserNotFound
	} else if err != nil {
		err = fmt.Errorf("get user: %w", err)
	}
	record(s.Backend(), "get", err)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

// Put implements Store. The read of the previous CreatedAt and the write
// run under WATCH so concurrent writers cannot interleave.
func (s *RedisStore) Put(ctx context.Context, user *User) error {
	if err := validateUser(user); err != nil {
		return err
	}
	key := s.prefix + user.Username

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		rec := *user
		rec.UpdatedAt = s.now().UTC()
		rec.CreatedAt = rec.UpdatedAt

		prev, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var old User
			if err := json.Unmarshal(prev, &old); err == nil {
				rec.CreatedAt = old.CreatedAt
			}
		case !errors.Is(err, redis.Nil):
			return fmt.Errorf("get user: %w", err)
		}

		data, err := json.Marshal(&rec)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	record(s.Backend(), "put", err)
	return err
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, username string) error {
	n, err := s.client.Del(ctx, s.prefix+username).Result()
	if err != nil {
		err = fmt.Errorf("delete user: %w", err)
	} else if n == 0 {
		err = ErrUserNotFound
	}
	record(s.Backend(), "delete", err)
	return err
}

// List implements Store.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	var names []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", s.scanBatch).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), s.prefix))
	}
	err := iter.Err()
	record(s.Backend(), "list", err)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
