package service

import (
	"context"
	"time"

	"tube-chat-go/internal/config"
	"tube-chat-go/internal/model"
	"tube-chat-go/internal/repository"
	"tube-chat-go/pkg/kafka"
	"tube-chat-go/pkg/log"
	"tube-chat-go/pkg/storage"
	"tube-chat-go/pkg/tasks"
)

// ChannelService 定义了频道/视频展示投影与同步触发的接口。
type ChannelService interface {
	ListChannels(ctx context.Context) ([]model.ChannelDTO, error)
	// GetChannel 返回单个频道，不存在时返回 ErrInvalidChannel。
	GetChannel(ctx context.Context, channelID string) (*model.ChannelDTO, error)
	ListVideos(ctx context.Context, channelID string) ([]model.VideoDTO, error)
	// RequestSync 将频道置为 pending 并投递一个同步任务到 Kafka。
	RequestSync(ctx context.Context, channelID string) error
}

type channelService struct {
	channelRepo repository.ChannelRepository
	minioCfg    config.MinIOConfig
}

// NewChannelService 创建一个新的 ChannelService 实例。
func NewChannelService(channelRepo repository.ChannelRepository, minioCfg config.MinIOConfig) ChannelService {
	return &channelService{
		channelRepo: channelRepo,
		minioCfg:    minioCfg,
	}
}

// ListChannels 返回全部频道的展示投影。
func (s *channelService) ListChannels(ctx context.Context) ([]model.ChannelDTO, error) {
	channels, err := s.channelRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]model.ChannelDTO, 0, len(channels))
	for _, ch := range channels {
		dtos = append(dtos, s.toChannelDTO(ctx, ch))
	}
	return dtos, nil
}

// GetChannel 返回单个频道的展示投影。
func (s *channelService) GetChannel(ctx context.Context, channelID string) (*model.ChannelDTO, error) {
	channel, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, model.ErrInvalidChannel
	}
	dto := s.toChannelDTO(ctx, *channel)
	return &dto, nil
}

// ListVideos 返回频道下全部视频的展示投影。
func (s *channelService) ListVideos(ctx context.Context, channelID string) ([]model.VideoDTO, error) {
	channel, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, model.ErrInvalidChannel
	}

	videos, err := s.channelRepo.FindVideosByChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	dtos := make([]model.VideoDTO, 0, len(videos))
	for _, v := range videos {
		dtos = append(dtos, model.VideoDTO{
			ID:               v.ID,
			ChannelID:        v.ChannelID,
			YouTubeVideoID:   v.YouTubeVideoID,
			Title:            v.Title,
			ThumbnailURL:     storage.ResolveThumbnailURL(ctx, s.minioCfg, v.ThumbnailURL),
			PublishedAt:      v.PublishedAt,
			Duration:         v.Duration,
			ViewCount:        v.ViewCount,
			TranscriptStatus: v.TranscriptStatus,
			StatusBadge:      model.TranscriptBadge(v.TranscriptStatus),
		})
	}
	return dtos, nil
}

// RequestSync 触发一次频道内容同步。
func (s *channelService) RequestSync(ctx context.Context, channelID string) error {
	channel, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel == nil {
		return model.ErrInvalidChannel
	}

	if err := s.channelRepo.UpdateProcessingStatus(ctx, channelID, model.ChannelStatusPending); err != nil {
		return err
	}
	if err := kafka.ProduceSyncTask(tasks.ChannelSyncTask{
		ChannelID:   channelID,
		RequestedAt: time.Now().UnixMilli(),
	}); err != nil {
		log.Errorf("投递频道同步任务失败: channelID=%s, err=%v", channelID, err)
		return err
	}
	log.Infof("已投递频道同步任务: channelID=%s", channelID)
	return nil
}

func (s *channelService) toChannelDTO(ctx context.Context, ch model.Channel) model.ChannelDTO {
	return model.ChannelDTO{
		ID:               ch.ID,
		Title:            ch.Title,
		Description:      ch.Description,
		ThumbnailURL:     storage.ResolveThumbnailURL(ctx, s.minioCfg, ch.ThumbnailURL),
		VideoCount:       ch.VideoCount,
		ProcessingStatus: ch.ProcessingStatus,
		StatusBadge:      model.ChannelBadge(ch.ProcessingStatus),
		LastSyncedAt:     ch.LastSyncedAt,
	}
}
