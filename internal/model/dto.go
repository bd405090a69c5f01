package model

import "time"

// ChatRequest 是一次对话轮次的请求体。
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse 是一次对话轮次的响应体。
type ChatResponse struct {
	SessionID  string    `json:"session_id"`
	Reply      string    `json:"reply"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// ResetRequest 是重置会话的请求体。
type ResetRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// TurnResult 是对话服务处理一轮后的内部结果。
type TurnResult struct {
	SessionID  string
	Response   string
	Intent     string
	Confidence float64
}

// CancelResult 是订单取消操作的响应体。
type CancelResult struct {
	OrderID   string `json:"orderId"`
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason,omitempty"`
}

// MetricsReport 是运行期指标快照。
type MetricsReport struct {
	UptimeSeconds      float64          `json:"uptime_seconds"`
	TotalRequests      int64            `json:"total_requests"`
	ErrorCount         int64            `json:"error_count"`
	ErrorRate          float64          `json:"error_rate"`
	AvgResponseMs      float64          `json:"avg_response_time_ms"`
	P95ResponseMs      float64          `json:"p95_response_time_ms"`
	IntentDistribution map[string]int64 `json:"intent_distribution"`
}
