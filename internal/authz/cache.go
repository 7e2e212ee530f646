// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package authz

import (
	"strings"
	"sync"
	"time"
)

// maxCacheEntries bounds the decision cache; expired entries are pruned
// when it fills, and the cache is reset if that is not enough.
const maxCacheEntries = 10000

// decisionCache caches authorization decisions.
type decisionCache struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &decisionCache{ttl: ttl, now: time.Now, items: make(map[string]cacheItem)}
}

// key joins the request triple with NUL, which cannot occur in a path.
func (c *decisionCache) key(subject, object, action string) string {
	return subject + "\x00" + object + "\x00" + action
}

func (c *decisionCache) get(subject, object, action string) (bool, bool) {
	c.mu.RLock()
	item, ok := c.items[c.key(subject, object, action)]
	c.mu.RUnlock()

	if !ok || c.now().After(item.expiresAt) {
		return false, false
	}
	return item.allowed, true
}

func (c *decisionCache) set(subject, object, action string, allowed bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= maxCacheEntries {
		for k, item := range c.items {
			if now.After(item.expiresAt) {
				delete(c.items, k)
			}
		}
		if len(c.items) >= maxCacheEntries {
			c.items = make(map[string]cacheItem)
		}
	}
	c.items[c.key(subject, object, action)] = cacheItem{allowed: allowed, expiresAt: now.Add(c.ttl)}
}

// invalidateSubject removes all cached decisions for subject.
func (c *decisionCache) invalidateSubject(subject string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := subject + "\x00"
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

func (c *decisionCache) clear() {
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
}

func (c *decisionCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
