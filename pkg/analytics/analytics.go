// Package analytics 定义了对话交互事件及其聚合统计。
// 事件由对话服务在每轮结束后发出，经 Kafka 投递到聚合端；
// 这里只有事件结构与聚合逻辑，不关心传输方式。
package analytics

import (
	"sync"
	"time"
)

// InteractionEvent 描述一次已处理的对话轮次。
type InteractionEvent struct {
	SessionID  string    `json:"session_id"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	ResponseMs float64   `json:"response_ms"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

// Report 是聚合后的业务视角统计。
type Report struct {
	TotalInteractions  int64            `json:"total_interactions"`
	SuccessRate        float64          `json:"success_rate"`
	IntentDistribution map[string]int64 `json:"intent_distribution"`
	UniqueSessions     int              `json:"unique_sessions"`
	AvgResponseMs      float64          `json:"avg_response_ms"`
}

// Aggregator 在内存中聚合交互事件，供分析报表查询。
type Aggregator struct {
	mu       sync.Mutex
	total    int64
	success  int64
	totalMs  float64
	intents  map[string]int64
	sessions map[string]struct{}
}

// NewAggregator 创建一个空的聚合器。
func NewAggregator() *Aggregator {
	return &Aggregator{
		intents:  make(map[string]int64),
		sessions: make(map[string]struct{}),
	}
}

// Record 记录一条交互事件。
func (a *Aggregator) Record(ev InteractionEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if ev.Success {
		a.success++
	}
	a.totalMs += ev.ResponseMs
	a.intents[ev.Intent]++
	a.sessions[ev.SessionID] = struct{}{}
}

// Snapshot 返回当前聚合结果的副本。
func (a *Aggregator) Snapshot() Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	dist := make(map[string]int64, len(a.intents))
	for k, v := range a.intents {
		dist[k] = v
	}

	r := Report{
		TotalInteractions:  a.total,
		IntentDistribution: dist,
		UniqueSessions:     len(a.sessions),
	}
	if a.total > 0 {
		r.SuccessRate = float64(a.success) / float64(a.total) * 100
		r.AvgResponseMs = a.totalMs / float64(a.total)
	}
	return r
}
