package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gin-gonic/gin"
)

// WithMetrics records request counts, latencies and response sizes.
func WithMetrics() gin.HandlerFunc {
	requestCounter := metrics.GetOrCreateCounter("http_requests_total")
	responseTimeHist := metrics.GetOrCreateHistogram("http_response_time_seconds")
	responseSizeHist := metrics.GetOrCreateHistogram("http_response_size_bytes")

	return func(c *gin.Context) {
		start := time.Now()
		requestCounter.Inc()

		c.Next()

		responseTimeHist.Update(time.Since(start).Seconds())
		if size := c.Writer.Size(); size > 0 {
			responseSizeHist.Update(float64(size))
		}
		metrics.GetOrCreateCounter(
			`http_response_status_total{code="` + strconv.Itoa(c.Writer.Status()) + `"}`,
		).Inc()
	}
}

// MetricsHandler serves the Prometheus exposition endpoint.
func MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
		metrics.WritePrometheus(c.Writer, true)
	}
}
