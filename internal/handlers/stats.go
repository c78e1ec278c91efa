package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newslens/newslens/internal/feedcache"
)

type StatsHandler struct {
	cache  *feedcache.Cache
	logger *slog.Logger
}

func NewStatsHandler(cache *feedcache.Cache, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{cache: cache, logger: logger}
}

type statsResponse struct {
	Cache     feedcache.Stats             `json:"cache"`
	Analytics feedcache.AnalyticsSnapshot `json:"analytics"`
	Codec     feedcache.CodecMetrics      `json:"codec"`
}

// GetStats reports cache footprint, hit/miss analytics and codec activity.
func (h *StatsHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, statsResponse{
		Cache:     h.cache.Stats(),
		Analytics: h.cache.Analytics().Snapshot(),
		Codec:     h.cache.Codec().Metrics(),
	})
}

// ClearCache drops every cached feed. Analytics counters survive; pass
// reset_analytics=true to zero them as well.
func (h *StatsHandler) ClearCache(c *gin.Context) {
	h.cache.Clear(c.Request.Context())
	if c.Query("reset_analytics") == "true" {
		h.cache.Analytics().Reset()
	}

	h.logger.Info("cache cleared", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
