// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"brainbytes-go/internal/config"
	"brainbytes-go/internal/pipeline"
	"brainbytes-go/internal/repository"
	"brainbytes-go/internal/router"
	"brainbytes-go/internal/seed"
	"brainbytes-go/internal/service"
	"brainbytes-go/pkg/database"
	"brainbytes-go/pkg/es"
	"brainbytes-go/pkg/events"
	"brainbytes-go/pkg/kafka"
	"brainbytes-go/pkg/llm"
	"brainbytes-go/pkg/log"
	"brainbytes-go/pkg/metrics"
	"brainbytes-go/pkg/storage"
	"brainbytes-go/pkg/tika"

	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("日志记录器初始化成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. 初始化数据库
	database.InitMySQL(cfg.Database.MySQL.DSN)
	useMongo := strings.EqualFold(cfg.Database.Driver, "mongo")
	if err := database.AutoMigrate(database.DB, !useMongo); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	var messageRepo repository.MessageRepository
	if useMongo {
		retry := time.Duration(cfg.Database.Mongo.RetryIntervalS) * time.Second
		if err := database.InitMongo(ctx, cfg.Database.Mongo.URI, cfg.Database.Mongo.Database, retry); err != nil {
			log.Fatal("MongoDB 初始化失败", err)
		}
		defer database.CloseMongo(context.Background())
		messageRepo = repository.NewMongoMessageRepository(database.MongoDB)
	} else {
		messageRepo = repository.NewMessageRepository(database.DB)
	}

	// 4. 可选基础设施：Redis / Elasticsearch / Kafka / MinIO / Tika
	statsCache := repository.NewNoopStatsCache()
	attempts := kafka.NewMemoryAttemptTracker()
	if cfg.Database.Redis.Enabled {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		statsCache = repository.NewStatsCache(database.RDB)
		attempts = kafka.NewRedisAttemptTracker(database.RDB)
	}

	var searcher service.MessageSearcher
	var processor events.Processor
	if cfg.Elasticsearch.Enabled {
		index, err := es.InitES(ctx, cfg.Elasticsearch)
		if err != nil {
			log.Fatal("es 初始化失败", err)
		}
		searcher = index
		processor = pipeline.NewProcessor(index)
	}

	publisher := events.NewNoopPublisher()
	switch {
	case cfg.Kafka.Enabled:
		producer := kafka.NewProducer(cfg.Kafka)
		defer producer.Close()
		publisher = producer
		if processor != nil {
			go kafka.StartConsumer(ctx, cfg.Kafka, processor, attempts)
		} else {
			log.Warnf("Kafka 已启用但 Elasticsearch 未启用，事件不会被消费")
		}
	case processor != nil:
		publisher = events.NewInlinePublisher(processor)
	}

	var store storage.AttachmentStore
	if cfg.MinIO.Enabled {
		s, err := storage.InitMinIO(ctx, cfg.MinIO)
		if err != nil {
			log.Fatal("MinIO 初始化失败", err)
		}
		store = s
	}
	var extractor service.TextExtractor
	if cfg.Tika.Enabled {
		extractor = tika.NewClient(cfg.Tika)
	}

	// 5. 推理网关与超时保护
	gateway, err := llm.NewGateway(cfg.LLM)
	if err != nil {
		log.Fatal("推理网关初始化失败", err)
	}
	guard := llm.NewGuard(gateway, time.Duration(cfg.LLM.TimeoutMS)*time.Millisecond).
		WithObserver(func(o llm.Outcome) { metrics.ObserveGatewayOutcome(string(o)) })
	log.Infof("推理网关已就绪, provider: %s, model: %s, timeout: %s", cfg.LLM.Provider, cfg.LLM.Model, guard.Timeout())

	// 6. 初始化 Service (依赖注入)
	materialService := service.NewMaterialService(repository.NewMaterialRepository(database.DB), store, extractor)
	svcs := router.Services{
		Messages: service.NewMessageService(messageRepo, guard, publisher, statsCache),
		Users: service.NewUserService(repository.NewUserRepository(database.DB), messageRepo, statsCache, service.StatsOptions{
			CacheTTL:          time.Duration(cfg.Stats.CacheTTLSeconds) * time.Second,
			PlaceholderStreak: cfg.Stats.PlaceholderStreak,
		}),
		Materials: materialService,
		Search:    service.NewSearchService(searcher),
	}

	// 7. 导入 initfile 目录中的学习资料，已导入则跳过
	go func() {
		if _, err := seed.Materials(ctx, "initfile", materialService); err != nil {
			log.Warnf("学习资料导入中断: %v", err)
		}
	}()

	// 8. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := router.New(svcs, router.Options{
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		LogBodies: true,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	// 停止 Kafka 消费者与导入任务
	cancel()
	log.Info("服务已优雅关闭")
}
