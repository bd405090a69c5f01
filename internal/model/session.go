package model

import "time"

// ChatMessage 代表会话历史中的单条消息。
type ChatMessage struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// 会话上下文变量的 key。
const (
	CtxLastOrderID   = "last_order_id"  // 本会话最近一次解析到的订单号
	CtxPendingIntent = "pending_intent" // 等待用户补充订单号的意图
)

// Session 代表一个用户的多轮会话状态。
// 历史按轮次（一问一答）计数并有上限，超出时最旧的轮次先被淘汰；
// 会话在不活跃超时后由存储层过期销毁。
type Session struct {
	ID        string            `json:"id"`
	Messages  []ChatMessage     `json:"messages"`
	Context   map[string]string `json:"context"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewSession 创建一个空会话。
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Messages:  []ChatMessage{},
		Context:   make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AppendTurn 追加一轮问答并淘汰超出 maxTurns 的最旧轮次。
func (s *Session) AppendTurn(userText, botText string, maxTurns int) {
	now := time.Now()
	s.Messages = append(s.Messages,
		ChatMessage{Role: "user", Content: userText, Timestamp: now},
		ChatMessage{Role: "assistant", Content: botText, Timestamp: now},
	)
	if maxTurns > 0 && len(s.Messages) > maxTurns*2 {
		s.Messages = s.Messages[len(s.Messages)-maxTurns*2:]
	}
	s.UpdatedAt = now
}

// Turns 返回当前保留的轮次数。
func (s *Session) Turns() int {
	return len(s.Messages) / 2
}
