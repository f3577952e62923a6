// Package adapters joins the in-memory and persistent caches into the response
// cache used by the HTTP middleware.
package adapters

import (
	"time"

	"github.com/amaumene/gostreamfr/internal/cache"
	"github.com/amaumene/gostreamfr/internal/database"
	"github.com/amaumene/gostreamfr/internal/metrics"
	"github.com/amaumene/gostreamfr/pkg/logger"
)

// ResponseCache stores serialized responses in an LRU and, when a database is
// configured, in bbolt so they survive restarts.
type ResponseCache struct {
	memory *cache.LRUCache
	store  database.Database
	ttl    time.Duration
	log    logger.Logger
	now    func() time.Time
}

// NewResponseCache returns a cache whose entries live for ttl. store may be nil.
func NewResponseCache(memory *cache.LRUCache, store database.Database, ttl time.Duration, log logger.Logger) *ResponseCache {
	return &ResponseCache{
		memory: memory,
		store:  store,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Get returns the stored body for key when it is younger than the cache TTL.
func (r *ResponseCache) Get(key string) ([]byte, bool) {
	if v, ok := r.memory.Get(key); ok {
		if body, ok := v.([]byte); ok {
			metrics.ResponseCacheTotal.WithLabelValues("memory", "hit").Inc()
			return body, true
		}
	}
	metrics.ResponseCacheTotal.WithLabelValues("memory", "miss").Inc()

	if r.store == nil {
		return nil, false
	}

	stored, err := r.store.GetResponse(key)
	if err != nil {
		r.log.Warnf("[ResponseCache] failed to read %s: %v", key, err)
		return nil, false
	}
	if stored == nil {
		metrics.ResponseCacheTotal.WithLabelValues("disk", "miss").Inc()
		return nil, false
	}

	age := r.now().Sub(stored.CreatedAt)
	if age >= r.ttl {
		metrics.ResponseCacheTotal.WithLabelValues("disk", "stale").Inc()
		return nil, false
	}

	metrics.ResponseCacheTotal.WithLabelValues("disk", "hit").Inc()
	r.memory.SetWithTTL(key, stored.Body, r.ttl-age)
	return stored.Body, true
}

// Set stores body in both tiers. Persistence failures are logged, not returned.
func (r *ResponseCache) Set(key string, body []byte) {
	r.memory.SetWithTTL(key, body, r.ttl)
	if r.store == nil {
		return
	}
	if err := r.store.StoreResponse(key, body); err != nil {
		r.log.Warnf("[ResponseCache] failed to persist %s: %v", key, err)
	}
}

// Purge drops persisted responses older than retention and expired memory entries.
func (r *ResponseCache) Purge(retention time.Duration) {
	r.memory.CleanExpired()
	if r.store == nil {
		return
	}
	n, err := r.store.DeleteOlderThan(retention)
	if err != nil {
		r.log.Errorf("[ResponseCache] purge failed: %v", err)
		return
	}
	if n > 0 {
		r.log.Infof("[ResponseCache] purged %d stored responses", n)
	}
}
