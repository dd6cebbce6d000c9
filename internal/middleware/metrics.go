package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SameerShan723/timetable-api/internal/service"
)

// Metrics records per-request duration and count. Unmatched routes fall back
// to the raw URL path so 404 traffic stays visible without exploding label
// cardinality for real routes.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
