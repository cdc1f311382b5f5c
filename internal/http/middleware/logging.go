// README: Request logging middleware; request IDs, latency, metrics.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dopc/internal/metrics"
)

// RequestLog tags each request with a uuid, logs the outcome, and feeds
// the request counters.
func RequestLog(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		metrics.RequestDuration.Observe(elapsed.Seconds())

		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
	}
}
