// Package feedcache is a size-bounded, compressing cache of per-source
// article feeds. Entries expire after a TTL, and writes that push the store
// over its byte budget evict the least-recently-accessed entries.
package feedcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/newslens/newslens/internal/news"
	"github.com/newslens/newslens/internal/persist"
)

const (
	entryKeyPrefix = "feedcache/entry/"
	indexKey       = "feedcache/index"
)

// indexRecord is the summary bookkeeping record persisted alongside entries.
type indexRecord struct {
	CacheSize          int64 `json:"cacheSize"`
	CompressionSavings int64 `json:"compressionSavings"`
	UpdatedAt          int64 `json:"updatedAt"`
}

// Cache is the feed cache store. Construct with New; the persisted index is
// loaded lazily on first use. All persistence failures degrade: reads to
// "entry absent", writes to a logged warning.
type Cache struct {
	cfg       Config
	codec     *Codec
	analytics *Analytics
	backend   persist.Store
	logger    *slog.Logger

	mu         sync.Mutex
	entries    map[string]*Entry
	totalSize  int64
	savedBytes int64
	loaded     bool
}

func New(cfg Config, backend persist.Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		cfg:       cfg.withDefaults(),
		codec:     NewCodec(),
		analytics: NewAnalytics(),
		backend:   backend,
		logger:    logger,
		entries:   make(map[string]*Entry),
	}
}

// Codec exposes the codec for metrics reporting.
func (c *Cache) Codec() *Codec { return c.codec }

// Analytics exposes the hit/miss observer.
func (c *Cache) Analytics() *Analytics { return c.analytics }

// Set compresses and stores the article list for sourceID, fully replacing
// any previous entry, then evicts least-recently-accessed entries until the
// store fits its budget. A single entry larger than the whole budget fails
// with ErrEntryTooLarge.
func (c *Cache) Set(ctx context.Context, sourceID string, articles []news.Article) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	res, err := c.codec.Compress(articles)
	if err != nil {
		return err
	}
	if res.StoredSize > c.cfg.BudgetBytes {
		return ErrEntryTooLarge
	}

	now := time.Now().UnixMilli()
	if old, ok := c.entries[sourceID]; ok {
		c.totalSize -= old.StoredSize
	}

	entry := &Entry{
		SourceID:       sourceID,
		Compressed:     res.Compressed,
		Payload:        res.Data,
		OriginalSize:   res.OriginalSize,
		StoredSize:     res.StoredSize,
		CreatedAt:      now,
		LastAccessedAt: now,
		AccessCount:    0,
	}
	c.entries[sourceID] = entry
	c.totalSize += entry.StoredSize
	if res.Compressed {
		c.savedBytes += res.OriginalSize - res.StoredSize
	}

	c.purgeExpired(ctx, now)
	c.evictOverBudget(ctx, sourceID)

	c.persistEntry(ctx, entry)
	c.persistIndex(ctx)
	return nil
}

// Get returns the cached article list for sourceID. Absent, stale, or
// undecompressable entries are misses; stale entries stay on disk until the
// next write pass.
func (c *Cache) Get(ctx context.Context, sourceID string) ([]news.Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	entry, ok := c.entries[sourceID]
	if !ok {
		c.analytics.RecordMiss()
		return nil, false
	}

	now := time.Now().UnixMilli()
	if c.expired(entry, now) {
		c.analytics.RecordMiss()
		return nil, false
	}

	var articles []news.Article
	if err := c.codec.Decompress(entry.Payload, entry.Compressed, &articles); err != nil {
		// The compressed flag may be stale on records written by older
		// versions; auto-detect the format before giving up.
		if err := c.codec.SmartDecompress(entry.Payload, &articles); err != nil {
			c.logger.Warn("cached entry unusable, dropping",
				"source", sourceID,
				"error", err,
			)
			c.removeEntry(ctx, sourceID)
			c.analytics.RecordMiss()
			return nil, false
		}
	}

	entry.LastAccessedAt = now
	entry.AccessCount++
	c.persistEntry(ctx, entry)

	c.analytics.RecordHit()
	return articles, true
}

// Stats reports the store's current footprint. CompressionSavings is the
// cumulative byte count saved by choosing compressed forms across writes.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		TotalEntries:       len(c.entries),
		CacheSize:          c.totalSize,
		CompressionSavings: c.savedBytes,
	}
}

// Clear removes every entry from memory and the persistence namespace and
// resets size bookkeeping. Analytics counters are untouched; call
// Analytics().Reset() separately to zero them.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ensureLoaded(ctx)

	for id := range c.entries {
		if err := c.backend.Remove(ctx, entryKeyPrefix+id); err != nil {
			c.logger.Warn("failed to remove persisted entry", "source", id, "error", err)
		}
	}
	c.entries = make(map[string]*Entry)
	c.totalSize = 0
	c.savedBytes = 0
	c.persistIndex(ctx)
}

// Close flushes the index record. The cache needs no other teardown.
func (c *Cache) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		c.persistIndex(ctx)
	}
	return nil
}

func (c *Cache) expired(e *Entry, nowMillis int64) bool {
	return nowMillis-e.CreatedAt > c.cfg.TTL.Milliseconds()
}

// purgeExpired physically drops logically-expired entries. It runs only
// during a write pass; reads just ignore stale entries.
func (c *Cache) purgeExpired(ctx context.Context, nowMillis int64) {
	for id, e := range c.entries {
		if c.expired(e, nowMillis) {
			c.removeEntry(ctx, id)
		}
	}
}

// evictOverBudget removes entries in ascending LastAccessedAt order until
// the store fits the budget or only the just-written entry remains.
func (c *Cache) evictOverBudget(ctx context.Context, keep string) {
	if c.totalSize <= c.cfg.BudgetBytes {
		return
	}

	candidates := make([]*Entry, 0, len(c.entries))
	for id, e := range c.entries {
		if id != keep {
			candidates = append(candidates, e)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LastAccessedAt < candidates[j].LastAccessedAt
	})

	for _, e := range candidates {
		if c.totalSize <= c.cfg.BudgetBytes {
			return
		}
		c.removeEntry(ctx, e.SourceID)
		c.analytics.RecordEviction()
		c.logger.Info("evicted least-recently-used entry",
			"source", e.SourceID,
			"stored_size", e.StoredSize,
			"cache_size", c.totalSize,
		)
	}
}

func (c *Cache) removeEntry(ctx context.Context, sourceID string) {
	entry, ok := c.entries[sourceID]
	if !ok {
		return
	}
	delete(c.entries, sourceID)
	c.totalSize -= entry.StoredSize
	if err := c.backend.Remove(ctx, entryKeyPrefix+sourceID); err != nil {
		c.logger.Warn("failed to remove persisted entry", "source", sourceID, "error", err)
	}
}

// ensureLoaded rebuilds the in-memory index from the persistence namespace
// on first use. Unreadable records are skipped, not fatal.
func (c *Cache) ensureLoaded(ctx context.Context) {
	if c.loaded {
		return
	}
	c.loaded = true

	keys, err := c.backend.Keys(ctx, entryKeyPrefix)
	if err != nil {
		c.logger.Warn("failed to list persisted entries, starting empty", "error", err)
		return
	}

	for _, key := range keys {
		data, err := c.backend.Get(ctx, key)
		if err != nil {
			c.logger.Warn("failed to read persisted entry", "key", key, "error", err)
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil || entry.SourceID == "" {
			c.logger.Warn("skipping malformed persisted entry", "key", key, "error", err)
			continue
		}
		c.entries[entry.SourceID] = &entry
		c.totalSize += entry.StoredSize
	}

	if data, err := c.backend.Get(ctx, indexKey); err == nil {
		var idx indexRecord
		if err := json.Unmarshal(data, &idx); err == nil {
			c.savedBytes = idx.CompressionSavings
		}
	}
}

// persistEntry writes one entry best-effort. A failed write (quota or
// backend outage) leaves the in-memory view authoritative for the session.
func (c *Cache) persistEntry(ctx context.Context, entry *Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("failed to encode entry for persistence", "source", entry.SourceID, "error", err)
		return
	}
	if err := c.backend.Set(ctx, entryKeyPrefix+entry.SourceID, data); err != nil {
		c.logger.Warn("failed to persist entry, keeping in-memory copy",
			"source", entry.SourceID,
			"error", err,
		)
	}
}

func (c *Cache) persistIndex(ctx context.Context) {
	data, err := json.Marshal(indexRecord{
		CacheSize:          c.totalSize,
		CompressionSavings: c.savedBytes,
		UpdatedAt:          time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	if err := c.backend.Set(ctx, indexKey, data); err != nil {
		c.logger.Warn("failed to persist cache index", "error", err)
	}
}
