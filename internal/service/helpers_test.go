package service_test

import (
	"context"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/repository"
	"tube-chat-go/internal/service"
	"tube-chat-go/pkg/retrieval"
)

// fakeChannelRepo 是 ChannelRepository 的测试替身，频道注册表数据固定在内存中。
type fakeChannelRepo struct {
	channels map[string]model.Channel
	videos   map[string][]model.Video
}

func newFakeChannelRepo(channels ...model.Channel) *fakeChannelRepo {
	repo := &fakeChannelRepo{
		channels: make(map[string]model.Channel),
		videos:   make(map[string][]model.Video),
	}
	for _, ch := range channels {
		repo.channels[ch.ID] = ch
	}
	return repo
}

func (r *fakeChannelRepo) FindByID(_ context.Context, channelID string) (*model.Channel, error) {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (r *fakeChannelRepo) FindAll(_ context.Context) ([]model.Channel, error) {
	channels := make([]model.Channel, 0, len(r.channels))
	for _, ch := range r.channels {
		channels = append(channels, ch)
	}
	return channels, nil
}

func (r *fakeChannelRepo) FindVideosByChannel(_ context.Context, channelID string) ([]model.Video, error) {
	return r.videos[channelID], nil
}

func (r *fakeChannelRepo) UpdateProcessingStatus(_ context.Context, channelID string, status model.ChannelProcessingStatus) error {
	ch, ok := r.channels[channelID]
	if !ok {
		return model.ErrInvalidChannel
	}
	ch.ProcessingStatus = status
	r.channels[channelID] = ch
	return nil
}

func (r *fakeChannelRepo) UpdateSyncResult(_ context.Context, channelID string, status model.ChannelProcessingStatus, videoCount int) error {
	ch, ok := r.channels[channelID]
	if !ok {
		return model.ErrInvalidChannel
	}
	ch.ProcessingStatus = status
	if videoCount >= 0 {
		ch.VideoCount = videoCount
	}
	r.channels[channelID] = ch
	return nil
}

var _ repository.ChannelRepository = (*fakeChannelRepo)(nil)

// fakeRetrievalClient 是检索引擎客户端的测试替身。
type fakeRetrievalClient struct {
	answerFn func(ctx context.Context, channelID, question string) (*retrieval.Answer, error)
}

func (c *fakeRetrievalClient) Answer(ctx context.Context, channelID, question string) (*retrieval.Answer, error) {
	return c.answerFn(ctx, channelID, question)
}

var _ retrieval.Client = (*fakeRetrievalClient)(nil)

// newTestConversationService 构造基于内存仓储的对话服务，注册一个可用频道 ch-1。
func newTestConversationService() service.ConversationService {
	channelRepo := newFakeChannelRepo(model.Channel{
		ID:               "ch-1",
		Title:            "Google Developers",
		ProcessingStatus: model.ChannelStatusCompleted,
	})
	return service.NewConversationService(repository.NewMemoryConversationRepository(), channelRepo)
}
