// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// writeError 把业务错误映射为 HTTP 状态码，响应体统一为 {"error": "..."}。
// notFoundMsg 非空时替换 404 的错误信息。
func writeError(c *gin.Context, err error, notFoundMsg string) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrDuplicateEmail):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		if notFoundMsg != "" {
			msg = notFoundMsg
		}
	case errors.Is(err, service.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}

// parseID 解析路径中的数字 ID，失败时直接写出 400。
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
