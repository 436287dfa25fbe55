// Package cache provides the shared, read-mostly caches of a rendering
// context: font faces, compiled markers and parsed expressions.
//
// Caches are explicit objects owned by whoever builds the renderer. There is
// no process-wide instance.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// Cache is a string-keyed store guarded by a single mutex.
//
// Lookups move entries to the front of a recency list (update on access),
// but nothing is ever evicted: entries live until Remove or Clear. Recency
// order is exposed through Keys for callers that want to trim manually.
//
// Example:
//
//	faces := cache.New[font.Face]()
//	face, err := faces.GetOrLoad("regular@12", func() (font.Face, error) {
//	    return opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72})
//	})
type Cache[V any] struct {
	entries map[string]*entry[V]
	lru     *list.List // most recent at front
	hits    int
	misses  int
	mu      sync.RWMutex
}

// entry tracks a cached value and its metadata
type entry[V any] struct {
	key          string
	value        V
	element      *list.Element
	lastAccessed time.Time
	accessCount  int
}

// New creates an empty cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]*entry[V]),
		lru:     list.New(),
	}
}

// Find returns the cached value for key and marks it most recently used.
func (c *Cache[V]) Find(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.touch(e)
	return e.value, true
}

// Contains reports whether key is cached without touching its recency.
func (c *Cache[V]) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[key]
	return ok
}

// Insert stores value under key unless the key is already present.
// It reports whether the value was stored; an existing entry is only
// marked most recently used.
func (c *Cache[V]) Insert(key string, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.touch(e)
		return false
	}
	c.add(key, value)
	return true
}

// Set stores value under key, replacing any existing entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.touch(e)
		return
	}
	c.add(key, value)
}

// GetOrLoad returns the cached value for key or loads and caches it.
//
// The loader runs outside the lock, so two goroutines missing the same key
// may both load it; the first value stored wins and is returned to both.
// Loader errors are returned wrapped and nothing is cached.
func (c *Cache[V]) GetOrLoad(key string, loader func() (V, error)) (V, error) {
	if v, ok := c.Find(key); ok {
		return v, nil
	}

	v, err := loader()
	if err != nil {
		var zero V
		return zero, fmt.Errorf("load %s: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.touch(e)
		return e.value, nil
	}
	c.add(key, v)
	return v, nil
}

// add inserts a new entry. Must be called with c.mu locked.
func (c *Cache[V]) add(key string, value V) {
	e := &entry[V]{
		key:          key,
		value:        value,
		lastAccessed: time.Now(),
		accessCount:  1,
	}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e
}

// touch records an access. Must be called with c.mu locked.
func (c *Cache[V]) touch(e *entry[V]) {
	e.lastAccessed = time.Now()
	e.accessCount++
	c.lru.MoveToFront(e.element)
}

// Remove explicitly removes an entry from the cache.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.Remove(e.element)
		delete(c.entries, key)
	}
}

// Clear removes all entries and resets the hit counters.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry[V])
	c.lru.Init()
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys, most recently used first.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, c.lru.Len())
	for el := c.lru.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

// Stats returns cache statistics.
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	totalAccess := 0
	for _, e := range c.entries {
		totalAccess += e.accessCount
	}

	return Stats{
		Entries:     len(c.entries),
		Hits:        c.hits,
		Misses:      c.misses,
		TotalAccess: totalAccess,
	}
}

// Stats holds cache usage metrics.
type Stats struct {
	Entries     int // Number of values currently cached
	Hits        int // Find calls that found a value
	Misses      int // Find calls that found nothing
	TotalAccess int // Accesses across all cached entries, including inserts
}
