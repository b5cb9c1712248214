package handler

import (
	"net/http"
	"strconv"

	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// SearchHandler 结构体定义了搜索相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 处理对话历史的全文检索请求。
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		size = 10
	}
	log.Infof("[SearchHandler] 收到搜索请求, q: %s, size: %d", query, size)

	hits, err := h.searchService.Search(c.Request.Context(), query, c.Query("subject"), size)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "hits": hits})
}
