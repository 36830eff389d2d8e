// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/repository"

	"github.com/google/uuid"
)

// ConversationService 定义了对话存储的操作接口。
// 同一对话上的追加操作被串行化；不同对话互不影响。
type ConversationService interface {
	// CreateConversation 创建一个绑定到频道的空对话。
	// channelID 为空或频道注册表中不存在时返回 ErrInvalidChannel。
	// 切换频道通过创建新对话完成，对话不会换绑频道。
	CreateConversation(ctx context.Context, channelID string) (*model.Conversation, error)
	// AppendUserMessage 追加一条用户消息，内容去除首尾空白后入库。
	AppendUserMessage(ctx context.Context, conversationID, content string) (*model.Message, error)
	// AppendAssistantMessage 追加一条助手消息。对话中没有任何用户消息时返回
	// ErrNoPriorUserMessage；引用列表允许为空，片段在入库前按起始时间升序规整。
	AppendAssistantMessage(ctx context.Context, conversationID, content string, refs []model.VideoReference) (*model.Message, error)
	// ListMessages 按追加顺序返回全部消息，只读不修改。
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	// GetConversation 返回完整对话。
	GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error)
	// Status 返回对话的瞬时状态（idle / awaiting_response）。
	Status(ctx context.Context, conversationID string) (model.ConversationStatus, error)
	// BeginGeneration 占用对话的回答生成席位（每个对话至多一个在途生成），
	// 占用期间 Status 返回 awaiting_response。返回的 release 必须被调用，
	// 它会恢复状态并释放席位。席位被占用时阻塞等待，ctx 取消则放弃。
	BeginGeneration(ctx context.Context, conversationID string) (release func(), err error)
}

type conversationService struct {
	repo        repository.ConversationRepository
	channelRepo repository.ChannelRepository

	mu      sync.Mutex
	locks   map[string]*sync.Mutex   // 每对话追加锁
	flights map[string]chan struct{} // 每对话生成席位（容量 1）
	pending map[string]struct{}      // 处于 awaiting_response 的对话
}

// NewConversationService 创建一个新的 ConversationService 实例。
func NewConversationService(repo repository.ConversationRepository, channelRepo repository.ChannelRepository) ConversationService {
	return &conversationService{
		repo:        repo,
		channelRepo: channelRepo,
		locks:       make(map[string]*sync.Mutex),
		flights:     make(map[string]chan struct{}),
		pending:     make(map[string]struct{}),
	}
}

func (s *conversationService) lockFor(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationID] = l
	}
	return l
}

func (s *conversationService) flightFor(conversationID string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flights[conversationID]
	if !ok {
		f = make(chan struct{}, 1)
		s.flights[conversationID] = f
	}
	return f
}

// CreateConversation 校验频道后创建空对话。
func (s *conversationService) CreateConversation(ctx context.Context, channelID string) (*model.Conversation, error) {
	if strings.TrimSpace(channelID) == "" {
		return nil, model.ErrInvalidChannel
	}
	channel, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, model.ErrInvalidChannel
	}

	conv := &model.Conversation{
		ID:        uuid.NewString(),
		ChannelID: channelID,
		Messages:  []model.Message{},
		CreatedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendUserMessage 串行追加用户消息。
func (s *conversationService) AppendUserMessage(ctx context.Context, conversationID, content string) (*model.Message, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, model.ErrEmptyContent
	}

	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   trimmed,
		CreatedAt: s.nextTimestamp(conv),
	}
	conv.Messages = append(conv.Messages, msg)
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return &msg, nil
}

// AppendAssistantMessage 串行追加助手消息，任何校验失败都不改动消息序列。
func (s *conversationService) AppendAssistantMessage(ctx context.Context, conversationID, content string, refs []model.VideoReference) (*model.Message, error) {
	l := s.lockFor(conversationID)
	l.Lock()
	defer l.Unlock()

	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserMessageCount() == 0 {
		return nil, model.ErrNoPriorUserMessage
	}

	normalized, err := model.NormalizeReferences(refs)
	if err != nil {
		return nil, err
	}

	msg := model.Message{
		ID:         uuid.NewString(),
		Role:       model.RoleAssistant,
		Content:    content,
		CreatedAt:  s.nextTimestamp(conv),
		References: normalized,
	}
	conv.Messages = append(conv.Messages, msg)
	if err := s.repo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages 返回按追加顺序排列的消息副本。
func (s *conversationService) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	conv, err := s.repo.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	messages := make([]model.Message, len(conv.Messages))
	copy(messages, conv.Messages)
	return messages, nil
}

// GetConversation 返回完整对话。
func (s *conversationService) GetConversation(ctx context.Context, conversationID string) (*model.Conversation, error) {
	return s.repo.Get(ctx, conversationID)
}

// Status 返回对话的瞬时状态。
func (s *conversationService) Status(ctx context.Context, conversationID string) (model.ConversationStatus, error) {
	if _, err := s.repo.Get(ctx, conversationID); err != nil {
		return "", err
	}
	s.mu.Lock()
	_, awaiting := s.pending[conversationID]
	s.mu.Unlock()
	if awaiting {
		return model.ConversationStatusAwaiting, nil
	}
	return model.ConversationStatusIdle, nil
}

// BeginGeneration 获取对话的生成席位并进入 awaiting_response 状态。
func (s *conversationService) BeginGeneration(ctx context.Context, conversationID string) (func(), error) {
	flight := s.flightFor(conversationID)
	select {
	case flight <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.Lock()
	s.pending[conversationID] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.pending, conversationID)
			s.mu.Unlock()
			<-flight
		})
	}
	return release, nil
}

// nextTimestamp 生成单对话内单调不减的消息时间。
func (s *conversationService) nextTimestamp(conv *model.Conversation) time.Time {
	ts := time.Now()
	if n := len(conv.Messages); n > 0 && conv.Messages[n-1].CreatedAt.After(ts) {
		ts = conv.Messages[n-1].CreatedAt
	}
	return ts
}
