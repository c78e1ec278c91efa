package feedcache

import (
	"errors"
	"time"
)

// Entry is the stored record for one source id's cached article list.
// A write fully replaces the previous entry for the same source.
type Entry struct {
	SourceID       string `json:"sourceId"`
	Compressed     bool   `json:"compressed"`
	Payload        []byte `json:"payload"`
	OriginalSize   int64  `json:"originalSizeBytes"`
	StoredSize     int64  `json:"storedSizeBytes"`
	CreatedAt      int64  `json:"createdAt"`      // epoch ms of last write
	LastAccessedAt int64  `json:"lastAccessedAt"` // epoch ms, drives LRU order
	AccessCount    int64  `json:"accessCount"`
}

// Stats is the current footprint of the store.
type Stats struct {
	TotalEntries       int   `json:"totalEntries"`
	CacheSize          int64 `json:"cacheSize"`
	CompressionSavings int64 `json:"compressionSavings"`
}

// Config controls the store's budget and freshness window.
type Config struct {
	// BudgetBytes caps the sum of stored entry sizes. Writes over budget
	// evict least-recently-accessed entries until it fits.
	BudgetBytes int64

	// TTL is the window after which an entry is logically stale on read.
	TTL time.Duration
}

const (
	DefaultBudgetBytes = 5 * 1024 * 1024
	DefaultTTL         = 30 * time.Minute
)

// ErrEntryTooLarge is returned by Set when one entry alone exceeds the
// configured budget; evicting everything else still could not make it fit.
var ErrEntryTooLarge = errors.New("feedcache: entry exceeds cache budget")

func (c Config) withDefaults() Config {
	if c.BudgetBytes <= 0 {
		c.BudgetBytes = DefaultBudgetBytes
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	return c
}
