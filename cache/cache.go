package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/use-agent/storyboard/models"
)

// entry holds a cached blueprint with its creation timestamp.
type entry struct {
	blueprint *models.VideoBlueprint
	createdAt time.Time
}

// Cache is an in-memory cache for generated video blueprints, keyed by
// source URL. It is safe for concurrent use.
type Cache struct {
	mu         sync.RWMutex
	store      map[string]*entry
	maxEntries int
}

// New creates a new Cache with the given maximum number of entries.
// A background goroutine runs every 5 minutes to evict expired entries
// (older than 1 hour).
func New(maxEntries int) *Cache {
	c := &Cache{
		store:      make(map[string]*entry),
		maxEntries: maxEntries,
	}

	go c.cleanupLoop()
	return c
}

// Key generates a cache key from the source URL.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}

// Get retrieves a cached blueprint if it exists and is younger than
// maxAge. If maxAge <= 0, no cache lookup is performed. Returns the
// blueprint and whether it was a cache hit.
func (c *Cache) Get(key string, maxAge time.Duration) (*models.VideoBlueprint, bool) {
	if maxAge <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Since(e.createdAt) > maxAge {
		return nil, false
	}

	return e.blueprint, true
}

// Set stores a blueprint in the cache. If the cache is at capacity,
// a random entry is evicted to make room.
func (c *Cache) Set(key string, bp *models.VideoBlueprint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict one random entry if at capacity (map iteration is random in Go).
	if len(c.store) >= c.maxEntries {
		for k := range c.store {
			delete(c.store, k)
			break
		}
	}

	c.store[key] = &entry{
		blueprint: bp,
		createdAt: time.Now(),
	}
}

// cleanupLoop evicts entries older than 1 hour every 5 minutes.
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-1 * time.Hour)
		c.mu.Lock()
		for k, e := range c.store {
			if e.createdAt.Before(cutoff) {
				delete(c.store, k)
			}
		}
		c.mu.Unlock()
	}
}
