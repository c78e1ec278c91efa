package feedcache

import (
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
)

// Analytics observes store reads without changing their outcome. Its
// counters have a lifecycle independent of the entries: Clear on the store
// does not reset them, only Reset does.
type Analytics struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// AnalyticsSnapshot is a point-in-time view of session effectiveness.
type AnalyticsSnapshot struct {
	TotalHits      uint64  `json:"totalHits"`
	TotalMisses    uint64  `json:"totalMisses"`
	TotalRequests  uint64  `json:"totalRequests"`
	TotalEvictions uint64  `json:"totalEvictions"`
	HitRate        float64 `json:"hitRate"`
	MissRate       float64 `json:"missRate"`
}

func NewAnalytics() *Analytics {
	return &Analytics{}
}

func (a *Analytics) RecordHit() {
	a.hits.Add(1)
	metrics.GetOrCreateCounter("feedcache_hits_total").Inc()
}

func (a *Analytics) RecordMiss() {
	a.misses.Add(1)
	metrics.GetOrCreateCounter("feedcache_misses_total").Inc()
}

func (a *Analytics) RecordEviction() {
	a.evictions.Add(1)
	metrics.GetOrCreateCounter("feedcache_evictions_total").Inc()
}

// Snapshot derives the aggregate rates. HitRate is 0 when no requests have
// been recorded.
func (a *Analytics) Snapshot() AnalyticsSnapshot {
	hits := a.hits.Load()
	misses := a.misses.Load()
	total := hits + misses

	s := AnalyticsSnapshot{
		TotalHits:      hits,
		TotalMisses:    misses,
		TotalRequests:  total,
		TotalEvictions: a.evictions.Load(),
	}
	if total > 0 {
		s.HitRate = float64(hits) / float64(total)
		s.MissRate = 1 - s.HitRate
	}
	return s
}

// Reset zeroes the session counters.
func (a *Analytics) Reset() {
	a.hits.Store(0)
	a.misses.Store(0)
	a.evictions.Store(0)
}
