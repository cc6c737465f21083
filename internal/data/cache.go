package data

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"time"
)

// CacheEntry represents a cached raw API response body.
type CacheEntry struct {
	Body      []byte
	ExpiresAt time.Time
}

// ResponseCache provides in-memory caching of raw Carbon Intensity API
// response bodies, keyed by request URL.
//
// This cache is for LOCAL DEVELOPMENT ONLY: it keeps repeated demo/CLI runs
// from hammering the public API. It is off by default, must be enabled via
// ENABLE_CARBONAPI_CACHE=true, and is force-disabled when API_ENV=production.
// Fetched records themselves are never persisted.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *ResponseCache
var cacheOnce sync.Once

// GetCache returns the global cache instance if caching is enabled.
// Returns nil if caching is disabled.
func GetCache() *ResponseCache {
	if os.Getenv("ENABLE_CARBONAPI_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 30 * time.Minute // settlement period cadence
		if ttlStr := os.Getenv("CARBONAPI_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &ResponseCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}

		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves a cached response body if available and not expired.
func (c *ResponseCache) Get(url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[cacheKey(url)]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Body, true
}

// Set stores a response body in the cache.
func (c *ResponseCache) Set(url string, body []byte) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[cacheKey(url)] = &CacheEntry{
		Body:      body,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// cleanup periodically removes expired entries.
func (c *ResponseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}
