package middleware

import (
	"time"

	"code-atlas/internal/managers"

	"github.com/gin-gonic/gin"
)

// ObserveRequests records count and latency per route template, so path parameters do not explode the labels.
func ObserveRequests(metricsMgr managers.MetricsMgr) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsMgr.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
