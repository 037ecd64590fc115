package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/userhub/admin-api/pkg/metrics"
)

// Metrics records request counts and latency per route. The route template
// (not the raw path) is used as the label to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
