// Package cache provides the in-process KeyValueCache used for balance memoization.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type item struct {
	value     string
	expiresAt time.Time
}

// LRUCache is a size-bounded cache with a per-key ttl. The underlying
// expirable LRU enforces maxTTL; shorter ttls are checked on read.
type LRUCache struct {
	lru *expirable.LRU[string, item]
	now func() time.Time
}

// NewLRUCache creates a cache holding at most size keys for at most maxTTL.
func NewLRUCache(size int, maxTTL time.Duration) *LRUCache {
	return &LRUCache{
		lru: expirable.NewLRU[string, item](size, nil, maxTTL),
		now: time.Now,
	}
}

// Get returns the cached value, if present and fresh.
func (c *LRUCache) Get(_ context.Context, key string) (string, bool, error) {
	it, ok := c.lru.Get(key)
	if !ok {
		return "", false, nil
	}
	if !c.now().Before(it.expiresAt) {
		c.lru.Remove(key)
		return "", false, nil
	}
	return it.value, true, nil
}

// Set stores a value for ttl.
func (c *LRUCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.lru.Add(key, item{value: value, expiresAt: c.now().Add(ttl)})
	return nil
}

// Delete drops a key.
func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len reports the number of keys held, expired ones included until evicted.
func (c *LRUCache) Len() int {
	return c.lru.Len()
}
