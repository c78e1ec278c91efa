package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/newslens/newslens/internal/handlers"
	"github.com/newslens/newslens/internal/middleware"
)

// Setup wires all routes and the middleware chain into a gin engine.
func Setup(logger *slog.Logger, feeds *handlers.FeedHandler, stats *handlers.StatsHandler) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.WithLogging(logger),
		middleware.WithMetrics(),
	)

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", middleware.MetricsHandler())
	r.GET("/stats", stats.GetStats)

	api := r.Group("/api", middleware.WithSourceValidation())
	api.GET("/feeds/:source", feeds.GetFeed)
	api.GET("/compare", feeds.CompareFeeds)
	api.POST("/cache/clear", stats.ClearCache)

	return r
}
