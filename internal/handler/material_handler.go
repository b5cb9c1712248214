package handler

import (
	"net/http"

	"brainbytes-go/internal/service"

	"github.com/gin-gonic/gin"
)

const materialNotFound = "Material not found"

// MaterialHandler 负责处理学习资料相关的 API 请求。
type MaterialHandler struct {
	materialService service.MaterialService
}

// NewMaterialHandler 创建一个新的 MaterialHandler 实例。
func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	m, err := h.materialService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.materialService.List(c.Request.Context(), c.Query("subject"))
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, materials)
}

// UploadAttachment 接收 multipart 表单中的 file 字段。
func (h *MaterialHandler) UploadAttachment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err, "")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	m, err := h.materialService.UploadAttachment(c.Request.Context(), id, fileHeader.Filename, contentType, file)
	if err != nil {
		writeError(c, err, materialNotFound)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *MaterialHandler) AttachmentURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	link, err := h.materialService.AttachmentURL(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, link)
}
