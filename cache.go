package caravansite

import (
	"context"
	"sync"
	"time"
)

// ContentCache keeps normalized content records per collection in memory
// with a TTL, so public listings are served without hitting the store on
// every request. Admin writes call Invalidate to force a fresh load.
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	store   *Store
}

type cacheEntry struct {
	records []ContentRecord
	fetched time.Time
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		store:   s,
	}
}

// Invalidate drops the cached records for one collection so the next read
// triggers a fresh load.
func (c *ContentCache) Invalidate(collection string) {
	c.mu.Lock()
	delete(c.entries, collection)
	c.mu.Unlock()
}

// Records returns the normalized records of a collection, loading from the
// store when the cached copy is missing or stale. It tries a read lock
// first; only takes a write lock if a reload is needed.
func (c *ContentCache) Records(ctx context.Context, collection string) ([]ContentRecord, error) {
	c.mu.RLock()
	if entry, ok := c.entries[collection]; ok && time.Since(entry.fetched) < c.ttl {
		records := entry.records
		c.mu.RUnlock()
		return records, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[collection]; ok && time.Since(entry.fetched) < c.ttl {
		return entry.records, nil
	}
	docs, err := c.store.Collection(collection).All(ctx)
	if err != nil {
		return nil, err
	}
	records := NormalizeAll(docs)
	c.entries[collection] = cacheEntry{records: records, fetched: time.Now()}
	return records, nil
}

// BySlug returns a single record by slug from the cached collection.
// Returns ErrNotFound if no record carries the slug.
func (c *ContentCache) BySlug(ctx context.Context, collection, slug string) (ContentRecord, error) {
	records, err := c.Records(ctx, collection)
	if err != nil {
		return ContentRecord{}, err
	}
	for _, rec := range records {
		if rec.Slug == slug {
			return rec, nil
		}
	}
	return ContentRecord{}, ErrNotFound
}

// Tags returns the sorted, deduplicated tags of a collection.
func (c *ContentCache) Tags(ctx context.Context, collection string) ([]string, error) {
	records, err := c.Records(ctx, collection)
	if err != nil {
		return nil, err
	}
	return CollectTags(records), nil
}
