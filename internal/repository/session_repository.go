package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ecom-support-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// SessionRepository 定义了会话状态的存取接口。
// 会话由其 session id 独占；按 id 的并发互斥由对话服务保证，
// 仓储只负责读写与过期。
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// ---- Redis 实现 ----

type redisSessionRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewSessionRepository 创建基于 Redis 的 SessionRepository。
// ttl 是会话的不活跃过期时长，每次 Save 都会刷新。
func NewSessionRepository(redisClient *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Get 从 Redis 读取会话，不存在（或已过期）时返回 model.ErrSessionNotFound。
func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("读取会话失败: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal([]byte(jsonData), &sess); err != nil {
		return nil, fmt.Errorf("解析会话数据失败: %w", err)
	}
	if sess.Context == nil {
		sess.Context = make(map[string]string)
	}
	return &sess, nil
}

// Save 将会话写回 Redis 并刷新过期时间。
func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(session.ID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("保存会话失败: %w", err)
	}
	return nil
}

// Delete 删除会话。
func (r *redisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.redisClient.Del(ctx, sessionKey(sessionID)).Err()
}

// ---- 内存实现 ----

// memorySessionRepository 是进程内的会话存储，带惰性过期。
// 用于单机部署与测试，契约与 Redis 实现一致。
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*memorySessionEntry
	ttl      time.Duration
}

type memorySessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemorySessionRepository 创建内存会话存储。
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]*memorySessionEntry),
		ttl:      ttl,
	}
}

func (r *memorySessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, model.ErrSessionNotFound
	}
	var sess model.Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("解析会话数据失败: %w", err)
	}
	if sess.Context == nil {
		sess.Context = make(map[string]string)
	}
	return &sess, nil
}

func (r *memorySessionRepository) Save(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	r.mu.Lock()
	r.sessions[session.ID] = &memorySessionEntry{
		data:      data,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}
