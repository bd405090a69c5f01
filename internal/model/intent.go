// Package model 包含了应用的数据模型定义。
package model

// 意图标签，与 intents.json 中声明的 tag 一一对应。
// 每个标签在对话路由中都有唯一的处理分支。
const (
	IntentGreeting   = "greeting"
	IntentTrackOrder = "track_order"
	IntentCancelItem = "cancel_item"
	IntentFAQ        = "faq"
	IntentUnknown    = "unknown"
)

// IntentPattern 代表一个意图的触发配置：标签、触发短语与响应模板。
// 启动时从 intents.json 加载一次，进程生命周期内只读。
type IntentPattern struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// IntentConfig 是 intents.json 文件的顶层结构。
// Intents 的声明顺序同时充当同分值时的优先级顺序。
type IntentConfig struct {
	Intents []IntentPattern `json:"intents"`
}

// ClassifyResult 是单次分类的结果，置信度始终落在 [0,1]。
type ClassifyResult struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

// EntityOrderID 是实体映射中订单号对应的 key。
const EntityOrderID = "order_id"
