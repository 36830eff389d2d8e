// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tube-chat-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// ConversationRepository 定义了对话文档的存取接口。
// 对话是仅追加的消息序列，写入方负责在读取-修改-写入期间做好串行化。
type ConversationRepository interface {
	// Save 以整文档方式写入对话。
	Save(ctx context.Context, conv *model.Conversation) error
	// Get 读取对话，不存在时返回 model.ErrNotFound。
	Get(ctx context.Context, conversationID string) (*model.Conversation, error)
}

type redisConversationRepository struct {
	redisClient *redis.Client
	ttl         time.Duration
}

// NewConversationRepository 创建一个基于 Redis 的 ConversationRepository。
func NewConversationRepository(redisClient *redis.Client, ttl time.Duration) ConversationRepository {
	return &redisConversationRepository{redisClient: redisClient, ttl: ttl}
}

func conversationKey(conversationID string) string {
	return fmt.Sprintf("conversation:%s", conversationID)
}

// Save 将对话序列化为 JSON 存入 Redis。
func (r *redisConversationRepository) Save(ctx context.Context, conv *model.Conversation) error {
	jsonData, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := r.redisClient.Set(ctx, conversationKey(conv.ID), jsonData, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set conversation: %w", err)
	}
	return nil
}

// Get 从 Redis 读取对话文档。
func (r *redisConversationRepository) Get(ctx context.Context, conversationID string) (*model.Conversation, error) {
	jsonData, err := r.redisClient.Get(ctx, conversationKey(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	var conv model.Conversation
	if err := json.Unmarshal([]byte(jsonData), &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}
