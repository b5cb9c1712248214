package middleware

import (
	"strconv"
	"time"

	"brainbytes-go/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics 记录每个请求的计数与耗时，path 使用路由模板避免标签爆炸。
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
