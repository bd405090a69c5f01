package handler

import (
	"net/http"
	"time"

	"ecom-support-go/internal/retriever"
	"ecom-support-go/internal/service"
	"ecom-support-go/pkg/analytics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// HealthHandler 暴露健康检查、运行指标与交互分析报表。
type HealthHandler struct {
	startTime   time.Time
	redisClient *redis.Client // 为 nil 表示未启用 Redis
	retriever   *retriever.Retriever
	intentCount int
	metrics     *service.MetricsService
	aggregator  *analytics.Aggregator // 为 nil 表示未启用分析消费端
}

// NewHealthHandler 创建一个新的 HealthHandler。
func NewHealthHandler(redisClient *redis.Client, r *retriever.Retriever, intentCount int, metrics *service.MetricsService, aggregator *analytics.Aggregator) *HealthHandler {
	return &HealthHandler{
		startTime:   time.Now(),
		redisClient: redisClient,
		retriever:   r,
		intentCount: intentCount,
		metrics:     metrics,
		aggregator:  aggregator,
	}
}

// Health 返回系统整体健康状态。
// 任一检查不通过时状态降为 degraded，HTTP 状态码仍为 200，
// 由监控方根据 status 字段判断。
func (h *HealthHandler) Health(c *gin.Context) {
	checks := gin.H{
		"intent_index": h.intentCount > 0,
		"faq_index":    h.retriever.Size() > 0,
	}

	redisOK := true
	if h.redisClient != nil {
		redisOK = h.redisClient.Ping(c.Request.Context()).Err() == nil
		checks["redis"] = redisOK
	}

	status := "healthy"
	if !redisOK || h.intentCount == 0 || h.retriever.Size() == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": time.Since(h.startTime).Seconds(),
		"checks":         checks,
	})
}

// Metrics 返回进程内聚合的请求指标。
func (h *HealthHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    h.metrics.Snapshot(),
	})
}

// Analytics 返回 Kafka 消费端聚合的交互分析报表。
func (h *HealthHandler) Analytics(c *gin.Context) {
	if h.aggregator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"code":    http.StatusServiceUnavailable,
			"message": "analytics consumer is not enabled",
			"data":    nil,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "success",
		"data":    h.aggregator.Snapshot(),
	})
}
