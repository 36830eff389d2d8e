// Package retrieval provides a client for the external retrieval engine
// that answers questions over a channel's transcripts.
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"tube-chat-go/internal/config"
	"tube-chat-go/internal/model"
	"tube-chat-go/pkg/log"
)

// Answer 是检索引擎对一个问题的结构化回答。
type Answer struct {
	Content    string                 `json:"content"`
	References []model.VideoReference `json:"references"`
}

// Client defines the interface for a retrieval engine client.
type Client interface {
	// Answer 针对指定频道回答问题，返回回答文本与视频证据引用。
	// 引擎不可达或返回错误时，返回可用 errors.Is 匹配 model.ErrRetrievalUnavailable 的错误。
	Answer(ctx context.Context, channelID, question string) (*Answer, error)
}

type httpClient struct {
	cfg    config.RetrievalConfig
	client *http.Client
}

// NewClient creates a new retrieval engine client from the config.
func NewClient(cfg config.RetrievalConfig) Client {
	return &httpClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type answerRequest struct {
	ChannelID string `json:"channelId"`
	Question  string `json:"question"`
	TopK      int    `json:"topK,omitempty"`
}

func (c *httpClient) Answer(ctx context.Context, channelID, question string) (*Answer, error) {
	reqBody := answerRequest{
		ChannelID: channelID,
		Question:  question,
		TopK:      c.cfg.TopK,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answer request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL+"/v1/answer", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create answer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// 把 ctx 的取消/超时原样交给上层判断，其余视为引擎不可用
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", model.ErrRetrievalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Errorf("[RetrievalClient] 检索引擎返回非 200 状态: %s, body: %s", resp.Status, string(bodyBytes))
		return nil, fmt.Errorf("%w: status %s", model.ErrRetrievalUnavailable, resp.Status)
	}

	var answer Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrRetrievalUnavailable, err)
	}
	return &answer, nil
}
