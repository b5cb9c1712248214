package handler

import (
	"fmt"
	"net/http"

	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// MessageHandler 负责处理对话消息相关的 API 请求。
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler 创建一个新的 MessageHandler 实例。
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// PostMessageRequest 定义了提问 API 的请求体结构。
type PostMessageRequest struct {
	Text    string `json:"text"`
	Subject string `json:"subject"`
	Filter  string `json:"filter"`
}

// List 返回全部消息。
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messageService.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// Post 处理提问请求，返回用户消息与 AI 回复。
func (h *MessageHandler) Post(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("PostMessage: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.messageService.Post(c.Request.Context(), req.Text, req.Subject, req.Filter)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DeleteBySubject 删除某个学科下的全部消息。
func (h *MessageHandler) DeleteBySubject(c *gin.Context) {
	sub := c.Param("subject")
	n, err := h.messageService.DeleteBySubject(c.Request.Context(), sub)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("Deleted %d messages from subject: %s", n, sub),
		"deletedCount": n,
	})
}
