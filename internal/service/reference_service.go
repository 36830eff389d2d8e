package service

import (
	"context"

	"tube-chat-go/internal/model"
)

// ReferenceService 定义了视频证据聚合的接口。
type ReferenceService interface {
	// CollectReferences 展平对话中全部助手消息的引用：先按消息顺序，
	// 再按消息内顺序（即按回答时间，不按相关性排序）。
	// 跨消息不去重：不同回答引用同一视频时各自保留，证据始终可归属到具体回答。
	CollectReferences(ctx context.Context, conversationID string) ([]model.VideoReference, error)
}

type referenceService struct {
	conversationService ConversationService
}

// NewReferenceService 创建一个新的 ReferenceService 实例。
func NewReferenceService(conversationService ConversationService) ReferenceService {
	return &referenceService{conversationService: conversationService}
}

// CollectReferences 聚合对话的全部视频引用。
func (s *referenceService) CollectReferences(ctx context.Context, conversationID string) ([]model.VideoReference, error) {
	messages, err := s.conversationService.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	refs := make([]model.VideoReference, 0)
	for _, msg := range messages {
		if msg.Role != model.RoleAssistant {
			continue
		}
		refs = append(refs, msg.References...)
	}
	return refs, nil
}
