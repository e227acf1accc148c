package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/observability"
)

// Metrics records request counts and latency. Long-lived streams in skip are
// counted but their duration is not observed.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	streaming := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		streaming[s] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if _, ok := streaming[route]; ok {
			elapsed = 0
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), elapsed)
	}
}
