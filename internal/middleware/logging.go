// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// maxLoggedBody 为日志中请求体与响应体的最大长度。
const maxLoggedBody = 2048

// bodyLogWriter 用于捕获响应体
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现了 io.Writer 接口，将响应写入 gin.ResponseWriter 和一个内部的 buffer
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// RequestLogger 是一个 Gin 中间件，每个请求都会记录一条日志。
// logBodies 为 true 时附带请求体与响应体，multipart 请求不读取请求体。
func RequestLogger(logBodies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		var requestBody []byte
		var blw *bodyLogWriter
		if logBodies {
			if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
				requestBody, _ = io.ReadAll(c.Request.Body)
				// 将读取的请求体重新设置回 c.Request.Body，以便后续处理函数可以正常读取
				c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			}
			blw = &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
			c.Writer = blw
		}

		c.Next()

		fields := []interface{}{
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}
		if blw != nil {
			fields = append(fields,
				"requestBody", truncate(string(requestBody)),
				"responseBody", truncate(blw.body.String()),
			)
		}
		log.Infow("HTTP Request Log", fields...)
	}
}

func truncate(s string) string {
	if len(s) <= maxLoggedBody {
		return s
	}
	return s[:maxLoggedBody] + "...(truncated)"
}
