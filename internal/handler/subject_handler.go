package handler

import (
	"net/http"

	"brainbytes-go/pkg/subject"

	"github.com/gin-gonic/gin"
)

// ListSubjects 返回学科列表和分类器版本，客户端据此校验本地分类规则。
func ListSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subjects": subject.Values(),
		"version":  subject.Version,
	})
}
