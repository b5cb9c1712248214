package middleware

import (
	"net/http"

	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit 使用令牌桶限制请求速率，超限返回 429。rps 非正数时不限流。
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.Warnf("请求被限流: %s %s", c.Request.Method, c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please slow down"})
			return
		}
		c.Next()
	}
}
