package handler

import (
	"net/http"

	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/log"

	"github.com/gin-gonic/gin"
)

const userNotFound = "User not found"

// UserHandler 负责处理所有与用户资料相关的 API 请求。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create 创建用户资料。
func (h *UserHandler) Create(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateUser: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// List 返回全部用户资料。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, users)
}

// Me 返回当前用户资料。
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe 根据 currentEmail 更新当前用户资料。
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpdateMeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Update 更新指定 ID 的用户资料。
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, userNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete 删除指定 ID 的用户资料。
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, userNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats 返回学习统计。
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.userService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
