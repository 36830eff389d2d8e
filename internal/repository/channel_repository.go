package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tube-chat-go/internal/model"

	"gorm.io/gorm"
)

// ChannelRepository 定义了频道注册表与视频目录镜像表的访问接口。
// 读路径供对话与展示层使用，写路径仅供同步链路更新处理状态。
type ChannelRepository interface {
	FindByID(ctx context.Context, channelID string) (*model.Channel, error)
	FindAll(ctx context.Context) ([]model.Channel, error)
	FindVideosByChannel(ctx context.Context, channelID string) ([]model.Video, error)
	UpdateProcessingStatus(ctx context.Context, channelID string, status model.ChannelProcessingStatus) error
	UpdateSyncResult(ctx context.Context, channelID string, status model.ChannelProcessingStatus, videoCount int) error
}

type gormChannelRepository struct {
	db *gorm.DB
}

// NewChannelRepository 创建一个新的 ChannelRepository 实例。
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &gormChannelRepository{db: db}
}

// FindByID 按主键查找频道，不存在时返回 (nil, nil)。
func (r *gormChannelRepository) FindByID(ctx context.Context, channelID string) (*model.Channel, error) {
	var channel model.Channel
	err := r.db.WithContext(ctx).First(&channel, "id = ?", channelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find channel: %w", err)
	}
	return &channel, nil
}

// FindAll 返回全部频道，按标题排序。
func (r *gormChannelRepository) FindAll(ctx context.Context) ([]model.Channel, error) {
	var channels []model.Channel
	if err := r.db.WithContext(ctx).Order("title asc").Find(&channels).Error; err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// FindVideosByChannel 返回频道下的全部视频，按发布时间倒序。
func (r *gormChannelRepository) FindVideosByChannel(ctx context.Context, channelID string) ([]model.Video, error) {
	var videos []model.Video
	if err := r.db.WithContext(ctx).Where("channel_id = ?", channelID).Order("published_at desc").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// UpdateProcessingStatus 更新频道处理状态（同步链路专用）。
func (r *gormChannelRepository) UpdateProcessingStatus(ctx context.Context, channelID string, status model.ChannelProcessingStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Channel{}).Where("id = ?", channelID).
		Update("processing_status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update processing status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrInvalidChannel
	}
	return nil
}

// UpdateSyncResult 在一次同步结束后落盘状态、视频数量与同步时间。
func (r *gormChannelRepository) UpdateSyncResult(ctx context.Context, channelID string, status model.ChannelProcessingStatus, videoCount int) error {
	now := model.LocalTime(time.Now())
	updates := map[string]interface{}{
		"processing_status": status,
		"last_synced_at":    &now,
	}
	if videoCount >= 0 {
		updates["video_count"] = videoCount
	}
	res := r.db.WithContext(ctx).Model(&model.Channel{}).Where("id = ?", channelID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update sync result: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrInvalidChannel
	}
	return nil
}
