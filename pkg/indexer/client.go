// Package indexer provides a client for the external transcript indexing
// service that ingests a channel's videos and transcripts.
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tube-chat-go/internal/config"
	"tube-chat-go/pkg/log"
)

// SyncResult 是索引服务完成一次频道同步后的摘要。
type SyncResult struct {
	VideoCount int `json:"videoCount"`
}

// Client defines the interface for the transcript indexer client.
type Client interface {
	// SyncChannel 请求索引服务重新摄取频道内容，调用同步阻塞到摄取完成。
	SyncChannel(ctx context.Context, channelID string) (*SyncResult, error)
}

type httpClient struct {
	cfg    config.IndexerConfig
	client *http.Client
}

// NewClient creates a new indexer client from the config.
func NewClient(cfg config.IndexerConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type syncRequest struct {
	ChannelID string `json:"channelId"`
}

func (c *httpClient) SyncChannel(ctx context.Context, channelID string) (*SyncResult, error) {
	reqBytes, err := json.Marshal(syncRequest{ChannelID: channelID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/channels/sync", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call indexer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Errorf("[IndexerClient] 索引服务返回非 200 状态: %s, body: %s", resp.Status, string(bodyBytes))
		return nil, fmt.Errorf("indexer returned non-200 status: %s", resp.Status)
	}

	var result SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sync result: %w", err)
	}
	return &result, nil
}
