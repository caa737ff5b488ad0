package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
)

// PrometheusMiddleware records API request metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Unmatched routes share one label to keep cardinality bounded.
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())

		metrics.IncrementAPIRequests(c.Request.Method, endpoint, statusCode)
		metrics.RecordAPIRequestDuration(c.Request.Method, endpoint, duration)
	}
}
