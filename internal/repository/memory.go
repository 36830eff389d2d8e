package repository

import (
	"context"
	"encoding/json"
	"sync"

	"tube-chat-go/internal/model"
)

// memoryConversationRepository 是 ConversationRepository 的进程内实现，
// 用于单元测试与无 Redis 的本地运行。
type memoryConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string][]byte
}

// NewMemoryConversationRepository 创建一个内存版 ConversationRepository。
func NewMemoryConversationRepository() ConversationRepository {
	return &memoryConversationRepository{
		conversations: make(map[string][]byte),
	}
}

func (r *memoryConversationRepository) Save(_ context.Context, conv *model.Conversation) error {
	// 与 Redis 实现保持一致的序列化边界，存取双方互不共享可变对象
	jsonData, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[conv.ID] = jsonData
	return nil
}

func (r *memoryConversationRepository) Get(_ context.Context, conversationID string) (*model.Conversation, error) {
	r.mu.RLock()
	jsonData, ok := r.conversations[conversationID]
	r.mu.RUnlock()
	if !ok {
		return nil, model.ErrNotFound
	}
	var conv model.Conversation
	if err := json.Unmarshal(jsonData, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}
