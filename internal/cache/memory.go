// Package cache provides read-through caching of raw upstream data: an
// in-memory TTL tier backed by an optional persistent store.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/hr-predictor/internal/metrics"
	"github.com/yourusername/hr-predictor/internal/models"
)

// dayCache is an in-memory TTL cache keyed by game date
type dayCache struct {
	name      string
	cache     *gocache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

func newDayCache(name string, ttl, cleanup time.Duration, maxSize int) *dayCache {
	return &dayCache{
		name:    name,
		cache:   gocache.New(ttl, cleanup),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

func (c *dayCache) get(day time.Time) (interface{}, bool) {
	value, found := c.cache.Get(models.FormatDate(day))

	c.mu.Lock()
	if found {
		c.hitCount++
	} else {
		c.missCount++
	}
	ratio := c.ratioLocked()
	c.mu.Unlock()

	metrics.UpdateCacheHitRatio(c.name, ratio)
	return value, found
}

func (c *dayCache) set(day time.Time, value interface{}) {
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
	}
	c.cache.Set(models.FormatDate(day), value, c.ttl)
}

func (c *dayCache) ratioLocked() float64 {
	total := c.hitCount + c.missCount
	if total == 0 {
		return 0
	}
	return float64(c.hitCount) / float64(total)
}

// Stats returns cache statistics
func (c *dayCache) Stats() (hits, misses uint64, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitCount, c.missCount, c.ratioLocked()
}

// ItemCount returns the number of items in cache
func (c *dayCache) ItemCount() int {
	return c.cache.ItemCount()
}

// Clear flushes the entire cache
func (c *dayCache) Clear() {
	c.cache.Flush()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.hitCount = 0
	c.missCount = 0
}

// EventCache holds one EventSet per game date
type EventCache struct {
	*dayCache
}

// NewEventCache creates a new event cache
func NewEventCache(ttl, cleanup time.Duration, maxSize int) *EventCache {
	return &EventCache{dayCache: newDayCache("events", ttl, cleanup, maxSize)}
}

// Get retrieves the cached events of a day
func (c *EventCache) Get(day time.Time) (*models.EventSet, bool) {
	value, found := c.get(day)
	if !found {
		return nil, false
	}
	set, ok := value.(*models.EventSet)
	return set, ok
}

// Set stores the events of a day
func (c *EventCache) Set(day time.Time, set *models.EventSet) {
	c.set(day, set)
}

// LineupCache holds the lineups of one game date
type LineupCache struct {
	*dayCache
}

// NewLineupCache creates a new lineup cache
func NewLineupCache(ttl, cleanup time.Duration, maxSize int) *LineupCache {
	return &LineupCache{dayCache: newDayCache("lineups", ttl, cleanup, maxSize)}
}

// Get retrieves the cached lineups of a day
func (c *LineupCache) Get(day time.Time) ([]models.LineupEntry, bool) {
	value, found := c.get(day)
	if !found {
		return nil, false
	}
	entries, ok := value.([]models.LineupEntry)
	return entries, ok
}

// Set stores the lineups of a day
func (c *LineupCache) Set(day time.Time, entries []models.LineupEntry) {
	c.set(day, entries)
}
