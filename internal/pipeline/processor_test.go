package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/pipeline"
	"tube-chat-go/internal/repository"
	"tube-chat-go/pkg/indexer"
	"tube-chat-go/pkg/tasks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChannelRepo struct {
	channel model.Channel
}

func (r *stubChannelRepo) FindByID(_ context.Context, channelID string) (*model.Channel, error) {
	if channelID != r.channel.ID {
		return nil, nil
	}
	ch := r.channel
	return &ch, nil
}

func (r *stubChannelRepo) FindAll(_ context.Context) ([]model.Channel, error) {
	return []model.Channel{r.channel}, nil
}

func (r *stubChannelRepo) FindVideosByChannel(_ context.Context, _ string) ([]model.Video, error) {
	return nil, nil
}

func (r *stubChannelRepo) UpdateProcessingStatus(_ context.Context, channelID string, status model.ChannelProcessingStatus) error {
	if channelID != r.channel.ID {
		return model.ErrInvalidChannel
	}
	r.channel.ProcessingStatus = status
	return nil
}

func (r *stubChannelRepo) UpdateSyncResult(_ context.Context, channelID string, status model.ChannelProcessingStatus, videoCount int) error {
	if channelID != r.channel.ID {
		return model.ErrInvalidChannel
	}
	r.channel.ProcessingStatus = status
	if videoCount >= 0 {
		r.channel.VideoCount = videoCount
	}
	return nil
}

var _ repository.ChannelRepository = (*stubChannelRepo)(nil)

type stubIndexerClient struct {
	result   *indexer.SyncResult
	err      error
	statuses *[]model.ChannelProcessingStatus
	repo     *stubChannelRepo
}

func (c *stubIndexerClient) SyncChannel(_ context.Context, _ string) (*indexer.SyncResult, error) {
	// 记录索引器被调用时频道已处于什么状态
	if c.statuses != nil {
		*c.statuses = append(*c.statuses, c.repo.channel.ProcessingStatus)
	}
	return c.result, c.err
}

func TestProcessMarksCompletedWithVideoCount(t *testing.T) {
	repo := &stubChannelRepo{channel: model.Channel{ID: "ch-1", ProcessingStatus: model.ChannelStatusPending, VideoCount: 2}}
	var observed []model.ChannelProcessingStatus
	client := &stubIndexerClient{result: &indexer.SyncResult{VideoCount: 5}, statuses: &observed, repo: repo}
	p := pipeline.NewProcessor(repo, client)

	err := p.Process(context.Background(), tasks.ChannelSyncTask{ChannelID: "ch-1"})
	require.NoError(t, err)

	// 调用索引器前频道先进入 processing
	require.Len(t, observed, 1)
	assert.Equal(t, model.ChannelStatusProcessing, observed[0])

	assert.Equal(t, model.ChannelStatusCompleted, repo.channel.ProcessingStatus)
	assert.Equal(t, 5, repo.channel.VideoCount)
}

func TestProcessMarksErrorAndKeepsVideoCount(t *testing.T) {
	repo := &stubChannelRepo{channel: model.Channel{ID: "ch-1", ProcessingStatus: model.ChannelStatusPending, VideoCount: 2}}
	client := &stubIndexerClient{err: errors.New("indexer unreachable"), repo: repo}
	p := pipeline.NewProcessor(repo, client)

	err := p.Process(context.Background(), tasks.ChannelSyncTask{ChannelID: "ch-1"})
	require.Error(t, err)

	assert.Equal(t, model.ChannelStatusError, repo.channel.ProcessingStatus)
	// 失败时保留上一次的视频计数
	assert.Equal(t, 2, repo.channel.VideoCount)
}

func TestProcessUnknownChannel(t *testing.T) {
	repo := &stubChannelRepo{channel: model.Channel{ID: "ch-1"}}
	p := pipeline.NewProcessor(repo, &stubIndexerClient{repo: repo})

	err := p.Process(context.Background(), tasks.ChannelSyncTask{ChannelID: "ch-unknown"})
	assert.ErrorIs(t, err, model.ErrInvalidChannel)
}
