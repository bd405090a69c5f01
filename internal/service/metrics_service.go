package service

import (
	"sort"
	"sync"
	"time"

	"ecom-support-go/internal/model"
)

// MetricsService 在进程内聚合请求指标：总量、错误、意图分布与延迟分位。
// 所有方法并发安全。
type MetricsService struct {
	mu        sync.Mutex
	startTime time.Time
	total     int64
	errors    int64
	latencies []float64 // 毫秒
	intents   map[string]int64
}

// NewMetricsService 创建一个新的指标聚合器。
func NewMetricsService() *MetricsService {
	return &MetricsService{
		startTime: time.Now(),
		intents:   make(map[string]int64),
	}
}

// Record 记录一次已处理的对话轮次。
func (m *MetricsService) Record(intent string, elapsed time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if !success {
		m.errors++
	}
	m.latencies = append(m.latencies, float64(elapsed.Microseconds())/1000)
	m.intents[intent]++
}

// Snapshot 返回当前指标的快照。
func (m *MetricsService) Snapshot() model.MetricsReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	dist := make(map[string]int64, len(m.intents))
	for k, v := range m.intents {
		dist[k] = v
	}

	report := model.MetricsReport{
		UptimeSeconds:      time.Since(m.startTime).Seconds(),
		TotalRequests:      m.total,
		ErrorCount:         m.errors,
		IntentDistribution: dist,
	}
	if m.total > 0 {
		report.ErrorRate = float64(m.errors) / float64(m.total)
	}
	if len(m.latencies) > 0 {
		sorted := make([]float64, len(m.latencies))
		copy(sorted, m.latencies)
		sort.Float64s(sorted)

		var sum float64
		for _, v := range sorted {
			sum += v
		}
		report.AvgResponseMs = sum / float64(len(sorted))

		idx := int(float64(len(sorted)) * 0.95)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		report.P95ResponseMs = sorted[idx]
	}
	return report
}
