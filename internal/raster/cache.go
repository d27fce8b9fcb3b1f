// File: cache.go
// Purpose: process-wide, reference-counted RasterSource handle cache
// Pattern: shared-resource
// Dependencies: golang.org/x/sync/singleflight
// Frequency: critical - every layer read goes through the cache first
//
// Generalizes the teacher's cmd/import-elevation LRUTileCache from
// "elevation tiles, pure LRU eviction" to "any opened COG, ref-counted
// so a handle in active use is never evicted out from under a running
// job." A handle is only closed once its reference count drops to
// zero, which happens when the job that opened it releases it at stage
// end.

package raster

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

type cacheEntry struct {
	source *Source
	refs   int
}

// Cache is the process-wide RasterSource handle cache keyed by URI
// (spec.md §5 "Shared resources"). Immutable after open: the entry for
// a URI is never refreshed in place, only opened once and closed when
// the last reference is released.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
}

// NewCache returns an empty handle cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Acquire returns an open Source for uri, opening it if necessary.
// Concurrent Acquire calls for the same uri are deduplicated via
// singleflight so only one goroutine pays the metadata-I/O cost of
// Open. Every successful Acquire must be matched with a Release.
func (c *Cache) Acquire(uri string) (*Source, error) {
	c.mu.Lock()
	if e, ok := c.entries[uri]; ok {
		e.refs++
		c.mu.Unlock()
		return e.source, nil
	}
	c.mu.Unlock()

	v, err, _ := c.sf.Do(uri, func() (interface{}, error) {
		c.mu.Lock()
		if e, ok := c.entries[uri]; ok {
			c.mu.Unlock()
			return e, nil
		}
		c.mu.Unlock()

		src, openErr := Open(uri)
		if openErr != nil {
			return nil, openErr
		}

		e := &cacheEntry{source: src}
		c.mu.Lock()
		c.entries[uri] = e
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	// Every caller sharing the singleflight result takes its own
	// reference, so each of them must Release.
	e := v.(*cacheEntry)
	c.mu.Lock()
	if c.entries[uri] != e {
		c.mu.Unlock()
		return c.Acquire(uri) // entry was released and closed meanwhile
	}
	e.refs++
	c.mu.Unlock()
	return e.source, nil
}

// Release decrements uri's reference count, closing the underlying
// dataset once it reaches zero.
func (c *Cache) Release(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[uri]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(c.entries, uri)
		go e.source.Close()
	}
}

// Len reports the number of distinct open handles, for tests and
// metrics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
