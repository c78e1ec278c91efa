package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// WithLogging logs one structured line per completed request.
func WithLogging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
			"size", c.Writer.Size(),
			"remote_addr", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
