package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/newslens/newslens/internal/feedcache"
	"github.com/newslens/newslens/internal/news"
)

// Fetcher retrieves a fresh feed for one source; the cache handles staleness.
type Fetcher interface {
	TopHeadlines(ctx context.Context, sourceID string) ([]news.Article, error)
}

type FeedHandler struct {
	cache   *feedcache.Cache
	fetcher Fetcher
	logger  *slog.Logger
}

func NewFeedHandler(cache *feedcache.Cache, fetcher Fetcher, logger *slog.Logger) *FeedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedHandler{cache: cache, fetcher: fetcher, logger: logger}
}

type feedResponse struct {
	Source   string         `json:"source"`
	Lean     news.Lean      `json:"lean"`
	Cached   bool           `json:"cached"`
	Articles []news.Article `json:"articles"`
}

// GetFeed serves the feed for one source, from cache when fresh.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	source := c.Param("source")

	articles, cached, err := h.feedFor(c.Request.Context(), source)
	if err != nil {
		h.logger.Error("failed to fetch feed", "source", source, "error", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error": "upstream news api unavailable",
		})
		return
	}

	if cached {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, feedResponse{
		Source:   source,
		Lean:     news.LeanFor(source),
		Cached:   cached,
		Articles: articles,
	})
}

type comparisonResponse struct {
	Sources []string                     `json:"sources"`
	ByLean  map[news.Lean][]feedResponse `json:"byLean"`
}

// CompareFeeds serves several source feeds side by side, grouped by
// political lean. Sources that fail to fetch are skipped rather than
// failing the whole comparison.
func (h *FeedHandler) CompareFeeds(c *gin.Context) {
	raw := c.DefaultQuery("sources", "cnn,bbc-news,fox-news")
	sources := strings.Split(raw, ",")

	resp := comparisonResponse{
		Sources: sources,
		ByLean:  make(map[news.Lean][]feedResponse),
	}
	for _, source := range sources {
		source = strings.TrimSpace(source)
		articles, cached, err := h.feedFor(c.Request.Context(), source)
		if err != nil {
			h.logger.Warn("skipping source in comparison", "source", source, "error", err)
			continue
		}
		lean := news.LeanFor(source)
		resp.ByLean[lean] = append(resp.ByLean[lean], feedResponse{
			Source:   source,
			Lean:     lean,
			Cached:   cached,
			Articles: articles,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// feedFor reads through the cache: hits come back directly, misses fetch
// from the news api and populate the cache best-effort.
func (h *FeedHandler) feedFor(ctx context.Context, source string) ([]news.Article, bool, error) {
	if articles, ok := h.cache.Get(ctx, source); ok {
		return articles, true, nil
	}

	articles, err := h.fetcher.TopHeadlines(ctx, source)
	if err != nil {
		return nil, false, err
	}

	if err := h.cache.Set(ctx, source, articles); err != nil {
		if errors.Is(err, feedcache.ErrEntryTooLarge) {
			h.logger.Warn("feed too large to cache", "source", source)
		} else {
			h.logger.Warn("failed to cache feed", "source", source, "error", err)
		}
	}
	return articles, false, nil
}
