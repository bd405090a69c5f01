// Package main 是应用程序的入口点。
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecom-support-go/internal/config"
	"ecom-support-go/internal/handler"
	"ecom-support-go/internal/middleware"
	"ecom-support-go/internal/model"
	"ecom-support-go/internal/nlu"
	"ecom-support-go/internal/repository"
	"ecom-support-go/internal/retriever"
	"ecom-support-go/internal/service"
	"ecom-support-go/pkg/analytics"
	"ecom-support-go/pkg/database"
	"ecom-support-go/pkg/kafka"
	"ecom-support-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	// 1. 初始化配置
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 加载意图配置与 FAQ 语料（启动时一次，进程内只读）
	intents, err := nlu.LoadIntents(cfg.Bot.IntentsFile)
	if err != nil {
		log.Fatal("加载意图配置失败", err)
	}
	corpus, err := retriever.LoadCorpus(cfg.Bot.FAQFile)
	if err != nil {
		log.Fatal("加载 FAQ 语料失败", err)
	}
	log.Infof("已加载 %d 个意图, %d 条 FAQ", len(intents.Intents), len(corpus))

	// 4. 初始化存储
	var redisClient *redis.Client
	if cfg.Session.Store == "redis" || cfg.Retriever.CacheTTLMinutes > 0 {
		database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		redisClient = database.RDB
	}

	var orderRepo repository.OrderRepository
	if cfg.Database.Driver == "mysql" {
		database.InitMySQL(cfg.Database.MySQL.DSN)
		if err := database.DB.AutoMigrate(&model.Order{}); err != nil {
			log.Fatal("订单表迁移失败", err)
		}
		orderRepo = repository.NewOrderRepository(database.DB)
	} else {
		seed, err := repository.LoadOrderSeed(cfg.Bot.OrdersFile)
		if err != nil {
			log.Fatal("加载订单种子数据失败", err)
		}
		orderRepo = repository.NewMemoryOrderRepository(seed)
		log.Infof("内存订单仓储已就绪, 共 %d 条订单", len(seed))
	}

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var sessionRepo repository.SessionRepository
	if cfg.Session.Store == "redis" {
		sessionRepo = repository.NewSessionRepository(redisClient, sessionTTL)
	} else {
		sessionRepo = repository.NewMemorySessionRepository(sessionTTL)
	}

	// 5. 初始化 Kafka 事件上报与分析消费端（未配置 brokers 时整体关闭）
	kafka.InitProducer(cfg.Kafka)
	var publisher service.EventPublisher
	var aggregator *analytics.Aggregator
	if kafka.Enabled() {
		publisher = kafka.Producer{}
		aggregator = analytics.NewAggregator()
		go kafka.StartConsumer(cfg.Kafka, aggregator)
	}

	// 6. 初始化 Service (依赖注入)
	classifier := nlu.NewClassifier(intents, cfg.Bot.ConfidenceThreshold)
	faqRetriever := retriever.New(corpus, cfg.Retriever.TopK, cfg.Retriever.MinSimilarity)

	intentService := service.NewIntentService(classifier)
	var faqCacheClient *redis.Client
	if cfg.Retriever.CacheTTLMinutes > 0 {
		faqCacheClient = redisClient
	}
	faqService := service.NewFAQService(faqRetriever, faqCacheClient, time.Duration(cfg.Retriever.CacheTTLMinutes)*time.Minute)
	orderService := service.NewOrderService(orderRepo, time.Duration(cfg.Order.CancelWindowHours)*time.Hour)
	responseService := service.NewResponseService(intents)
	metricsService := service.NewMetricsService()
	dialogueService := service.NewDialogueService(
		intentService,
		faqService,
		orderService,
		responseService,
		sessionRepo,
		metricsService,
		publisher,
		cfg.Session.HistoryMax,
		cfg.Bot.MaxMessageLen,
	)

	// 7. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	// 8. 注册路由
	chatHandler := handler.NewChatHandler(dialogueService)
	orderHandler := handler.NewOrderHandler(orderService)
	faqHandler := handler.NewFAQHandler(faqService)
	healthHandler := handler.NewHealthHandler(redisClient, faqRetriever, classifier.IntentCount(), metricsService, aggregator)

	r.GET("/health", healthHandler.Health)
	r.GET("/health/metrics", healthHandler.Metrics)
	r.GET("/health/analytics", healthHandler.Analytics)
	r.GET("/chat/ws", chatHandler.Handle)

	apiV1 := r.Group("/api/v1")
	{
		chat := apiV1.Group("/chat")
		{
			chat.POST("/message", chatHandler.PostMessage)
			chat.GET("/history", chatHandler.GetHistory)
			chat.POST("/session/reset", chatHandler.ResetSession)
		}

		orders := apiV1.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:orderId", orderHandler.GetOrder)
			orders.POST("/:orderId/cancel", orderHandler.CancelOrder)
		}

		apiV1.GET("/faq/search", faqHandler.Search)
	}

	// 9. 启动 HTTP 服务器并实现优雅停机
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

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	log.Info("服务已优雅关闭")
}
