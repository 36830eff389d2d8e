package service

import (
	"context"
	"errors"
	"fmt"

	"tube-chat-go/internal/config"
	"tube-chat-go/internal/model"
	"tube-chat-go/pkg/log"
	"tube-chat-go/pkg/retrieval"
)

// ChatService 定义了一次完整问答回合的编排接口。
type ChatService interface {
	// Ask 追加用户消息、调用外部检索引擎并把回答落为助手消息。
	// 检索期间对话处于 awaiting_response；每个对话至多一个在途回合。
	// 调用方取消（ctx）或超时都不会留下部分/占位的助手消息，
	// 超时以 ErrRetrievalTimeout 上报，引擎故障以 ErrRetrievalUnavailable 上报。
	Ask(ctx context.Context, conversationID, question string) (*AskResult, error)
}

// AskResult 是一轮问答产生的两条消息。
type AskResult struct {
	UserMessage      *model.Message `json:"userMessage"`
	AssistantMessage *model.Message `json:"assistantMessage"`
}

type chatService struct {
	conversationService ConversationService
	retrievalClient     retrieval.Client
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(conversationService ConversationService, retrievalClient retrieval.Client) ChatService {
	return &chatService{
		conversationService: conversationService,
		retrievalClient:     retrievalClient,
	}
}

// Ask 编排一轮问答。
func (s *chatService) Ask(ctx context.Context, conversationID, question string) (*AskResult, error) {
	conv, err := s.conversationService.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	// 占用生成席位，保证同一对话的回合不交错
	release, err := s.conversationService.BeginGeneration(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	defer release()

	userMsg, err := s.conversationService.AppendUserMessage(ctx, conversationID, question)
	if err != nil {
		return nil, err
	}

	// 给检索调用加上超时界限，超时表现与取消一致
	rctx, cancel := context.WithTimeout(ctx, config.Conf.Chat.RetrievalTimeout())
	defer cancel()

	answer, err := s.retrievalClient.Answer(rctx, conv.ChannelID, question)
	if err != nil {
		if ctx.Err() != nil {
			// 调用方主动取消：不追加任何消息，状态由 release 恢复
			log.Infof("[ChatService] 检索被调用方取消: conversationID=%s", conversationID)
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(rctx.Err(), context.DeadlineExceeded) {
			log.Warnf("[ChatService] 检索超时: conversationID=%s", conversationID)
			return nil, fmt.Errorf("%w: %v", model.ErrRetrievalTimeout, err)
		}
		return nil, err
	}

	// 使用后台上下文落库：检索已经成功，即使原始请求此刻被取消，
	// 也应保留生成完成的回答
	assistantMsg, err := s.conversationService.AppendAssistantMessage(context.Background(), conversationID, answer.Content, answer.References)
	if err != nil {
		return nil, err
	}

	return &AskResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}, nil
}
