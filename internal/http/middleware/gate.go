// README: Bounded-concurrency gate at the request intake boundary.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"dopc/internal/metrics"
)

// Gate caps the number of in-flight requests. The hosting server bounds
// concurrency too; this is the documented defense-in-depth layer, so a
// full gate answers immediately instead of queueing.
func Gate(maxInFlight int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(maxInFlight)
	return func(c *gin.Context) {
		if !sem.TryAcquire(1) {
			metrics.GateRejections.Inc()
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error":   "Server too busy",
			})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
