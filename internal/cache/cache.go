// Package cache keeps last-known entity lists so reads can survive a
// backend outage. Entries are namespaced per clinic and entity kind and
// expire on a TTL; expired entries are evicted on read.
package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/AvaniK-2002/asvicare/internal/model"
)

const (
	// DefaultTTL bounds how stale a served list may be.
	DefaultTTL      = 5 * time.Minute
	cleanupInterval = 10 * time.Minute
)

type Cache struct {
	c          *gocache.Cache
	defaultTTL time.Duration
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		c:          gocache.New(ttl, cleanupInterval),
		defaultTTL: ttl,
	}
}

// Key builds the namespaced cache key for one clinic's entity list.
func Key(kind model.EntityKind, clinicID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, clinicID)
}

func syncKey(kind model.EntityKind, clinicID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:last_sync", kind, clinicID)
}

// Set stores value under key. A non-positive ttl falls back to the
// cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.c.Set(key, value, ttl)
}

// Get returns the stored value, or nil when absent or expired. go-cache
// drops expired entries lazily on read.
func (c *Cache) Get(key string) interface{} {
	v, ok := c.c.Get(key)
	if !ok {
		return nil
	}
	return v
}

func (c *Cache) Invalidate(key string) {
	c.c.Delete(key)
}

func (c *Cache) Clear() {
	c.c.Flush()
}

// SetList caches one clinic's entity list and stamps its sync time.
func (c *Cache) SetList(kind model.EntityKind, clinicID uuid.UUID, list interface{}) {
	c.Set(Key(kind, clinicID), list, 0)
	c.c.Set(syncKey(kind, clinicID), time.Now(), gocache.NoExpiration)
}

// GetList returns the cached list for one clinic, or nil.
func (c *Cache) GetList(kind model.EntityKind, clinicID uuid.UUID) interface{} {
	return c.Get(Key(kind, clinicID))
}

// InvalidateList drops one clinic's cached list after a mutation.
func (c *Cache) InvalidateList(kind model.EntityKind, clinicID uuid.UUID) {
	c.Invalidate(Key(kind, clinicID))
}

// LastSync reports when a kind was last refreshed for a clinic; zero
// time when never.
func (c *Cache) LastSync(kind model.EntityKind, clinicID uuid.UUID) time.Time {
	v, ok := c.c.Get(syncKey(kind, clinicID))
	if !ok {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}
