package service

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"ecom-support-go/internal/model"
	"ecom-support-go/internal/retriever"
	"ecom-support-go/pkg/log"

	"github.com/go-redis/redis/v8"
)

// FAQService 定义了 FAQ 检索操作的接口。
type FAQService interface {
	// Retrieve 返回与查询最相关的至多 topK 条问答。
	// 没有条目越过相似度阈值时返回空切片，这是一种正常结果而非错误。
	Retrieve(ctx context.Context, query string, topK int) ([]model.FAQMatch, error)
	// Reload 用新语料重建索引并清掉已缓存的查询结果。
	Reload(ctx context.Context, entries []model.FAQEntry) error
}

type faqService struct {
	retriever   *retriever.Retriever
	redisClient *redis.Client // 为 nil 时关闭缓存
	cacheTTL    time.Duration
}

// NewFAQService 创建一个新的 FAQService 实例。
// redisClient 可以为 nil，此时每次查询都直接走索引。
func NewFAQService(r *retriever.Retriever, redisClient *redis.Client, cacheTTL time.Duration) FAQService {
	return &faqService{retriever: r, redisClient: redisClient, cacheTTL: cacheTTL}
}

func faqCacheKey(query string, topK int) string {
	return fmt.Sprintf("faq:result:%x:%d", md5.Sum([]byte(query)), topK)
}

func (s *faqService) Retrieve(ctx context.Context, query string, topK int) ([]model.FAQMatch, error) {
	if s.redisClient == nil || s.cacheTTL <= 0 {
		return s.retriever.Retrieve(query, topK), nil
	}

	key := faqCacheKey(query, topK)
	if cached, err := s.redisClient.Get(ctx, key).Result(); err == nil {
		var matches []model.FAQMatch
		if err := json.Unmarshal([]byte(cached), &matches); err == nil {
			return matches, nil
		}
		// 缓存内容损坏时回退到索引查询，并覆盖写回
		log.Warnf("FAQ 缓存内容无法解析, key=%s", key)
	} else if err != redis.Nil {
		// 缓存不可用只降级，不影响检索
		log.Warnf("读取 FAQ 缓存失败: %v", err)
	}

	matches := s.retriever.Retrieve(query, topK)

	if data, err := json.Marshal(matches); err == nil {
		if err := s.redisClient.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
			log.Warnf("写入 FAQ 缓存失败: %v", err)
		}
	}
	return matches, nil
}

// Reload 重建索引。缓存键带有匹配内容的哈希无从枚举，这里按前缀清理。
func (s *faqService) Reload(ctx context.Context, entries []model.FAQEntry) error {
	s.retriever.Reload(entries)
	if s.redisClient == nil {
		return nil
	}
	keys, err := s.redisClient.Keys(ctx, "faq:result:*").Result()
	if err != nil {
		return fmt.Errorf("清理 FAQ 缓存失败: %w", err)
	}
	if len(keys) > 0 {
		if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("清理 FAQ 缓存失败: %w", err)
		}
	}
	log.Infof("FAQ 语料已重建, 共 %d 条, 清理缓存 %d 个", len(entries), len(keys))
	return nil
}
