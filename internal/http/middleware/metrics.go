package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tourquote/internal/infra"
)

// Metrics counts requests by route template, so ids do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		infra.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
