// Package router 负责组装 Gin 引擎与全部路由。
package router

import (
	"net/http"

	"brainbytes-go/internal/handler"
	"brainbytes-go/internal/middleware"
	"brainbytes-go/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services 是路由所需的业务服务集合。
type Services struct {
	Messages  service.MessageService
	Users     service.UserService
	Materials service.MaterialService
	Search    service.SearchService
}

// Options 控制中间件行为。
type Options struct {
	RateLimit float64
	RateBurst int
	// LogBodies 为 true 时记录请求与响应体。
	LogBodies bool
}

// New 创建路由引擎。
func New(svcs Services, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.LogBodies), gin.Recovery(), middleware.Metrics(), cors.New(corsConfig()))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the BrainBytes API"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	messageHandler := handler.NewMessageHandler(svcs.Messages)
	userHandler := handler.NewUserHandler(svcs.Users)
	materialHandler := handler.NewMaterialHandler(svcs.Materials)
	searchHandler := handler.NewSearchHandler(svcs.Search)

	api := r.Group("/api")
	{
		messages := api.Group("/messages")
		{
			messages.GET("", messageHandler.List)
			messages.POST("", middleware.RateLimit(opts.RateLimit, opts.RateBurst), messageHandler.Post)
			messages.GET("/search", searchHandler.Search)
			messages.DELETE("/subject/:subject", messageHandler.DeleteBySubject)
		}

		api.GET("/subjects", handler.ListSubjects)

		users := api.Group("/users")
		{
			users.POST("", userHandler.Create)
			users.GET("", userHandler.List)
			users.GET("/me", userHandler.Me)
			users.PUT("/me", userHandler.UpdateMe)
			users.GET("/stats", userHandler.Stats)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		materials := api.Group("/materials")
		{
			materials.POST("", materialHandler.Create)
			materials.GET("", materialHandler.List)
			materials.POST("/:id/attachment", materialHandler.UploadAttachment)
			materials.GET("/:id/attachment", materialHandler.AttachmentURL)
		}
	}

	return r
}

// corsConfig 允许任意来源访问。
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	return cfg
}
