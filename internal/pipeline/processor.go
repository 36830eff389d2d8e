// Package pipeline 实现了频道同步任务的处理流程。
package pipeline

import (
	"context"
	"fmt"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/repository"
	"tube-chat-go/pkg/indexer"
	"tube-chat-go/pkg/log"
	"tube-chat-go/pkg/tasks"
)

// Processor 消费频道同步任务：推进频道处理状态，并把实际摄取工作
// 委托给外部转写索引服务。摄取本身不在本服务范围内。
type Processor struct {
	channelRepo   repository.ChannelRepository
	indexerClient indexer.Client
}

// NewProcessor 创建一个新的 Processor。
func NewProcessor(channelRepo repository.ChannelRepository, indexerClient indexer.Client) *Processor {
	return &Processor{
		channelRepo:   channelRepo,
		indexerClient: indexerClient,
	}
}

// Process 处理一个频道同步任务，满足 kafka.TaskProcessor 接口。
func (p *Processor) Process(ctx context.Context, task tasks.ChannelSyncTask) error {
	log.Infof("[Processor] 开始同步频道: channelID=%s", task.ChannelID)

	if err := p.channelRepo.UpdateProcessingStatus(ctx, task.ChannelID, model.ChannelStatusProcessing); err != nil {
		return fmt.Errorf("failed to mark channel processing: %w", err)
	}

	result, err := p.indexerClient.SyncChannel(ctx, task.ChannelID)
	if err != nil {
		// 同步失败：状态落为 error，保留上一次的视频计数
		if updateErr := p.channelRepo.UpdateSyncResult(ctx, task.ChannelID, model.ChannelStatusError, -1); updateErr != nil {
			log.Errorf("[Processor] 标记频道同步失败状态出错: channelID=%s, err=%v", task.ChannelID, updateErr)
		}
		return fmt.Errorf("indexer sync failed: %w", err)
	}

	if err := p.channelRepo.UpdateSyncResult(ctx, task.ChannelID, model.ChannelStatusCompleted, result.VideoCount); err != nil {
		return fmt.Errorf("failed to mark channel completed: %w", err)
	}

	log.Infof("[Processor] 频道同步完成: channelID=%s, videoCount=%d", task.ChannelID, result.VideoCount)
	return nil
}
