// Package model 包含了应用的数据模型定义。
package model

import (
	"math"
	"sort"
	"time"
)

// Role 标识一条消息的作者。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationStatus 表示对话的瞬时状态，供前端渲染等待指示器。
type ConversationStatus string

const (
	ConversationStatusIdle     ConversationStatus = "idle"
	ConversationStatusAwaiting ConversationStatus = "awaiting_response"
)

// Conversation 代表一次绑定到单个频道的聊天会话。
// 消息序列仅追加，插入顺序即展示顺序；对话创建后不会再换绑到其他频道。
type Conversation struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channelId"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message 代表对话中的一轮发言。
// References 仅在 assistant 消息上出现；用户消息不携带引用，
// 该约束由 service 层的追加入口保证（user 路径不接收引用参数）。
type Message struct {
	ID         string           `json:"id"`
	Role       Role             `json:"role"`
	Content    string           `json:"content"`
	CreatedAt  time.Time        `json:"createdAt"`
	References []VideoReference `json:"references,omitempty"`
}

// VideoReference 是助手回答附带的视频证据引用，指向一个视频。
// 存入后不可变更。
type VideoReference struct {
	VideoID        string    `json:"videoId"`
	YouTubeVideoID string    `json:"youtubeVideoId"`
	VideoTitle     string    `json:"videoTitle"`
	ThumbnailURL   string    `json:"thumbnailUrl"`
	Segments       []Segment `json:"segments"`
}

// Segment 是视频转写中被引用的一个时间区间，时间单位为秒（相对视频起点）。
type Segment struct {
	TranscriptID   string  `json:"transcriptId"`
	StartTime      float64 `json:"startTime"`
	EndTime        float64 `json:"endTime"`
	Text           string  `json:"text"`
	RelevanceScore float64 `json:"relevanceScore"`
}

// NormalizeReferences 在存储前规整助手消息的引用列表：
// 校验每个片段满足 0 <= start < end（且为有限数），否则返回 ErrInvalidTimestamp；
// 将片段按起始时间升序稳定排序（相同起始时间保持原有顺序）；
// 将相关性分数收敛到 [0,1]。片段允许重叠，不做去重。
// 返回深拷贝，调用方传入的切片不被修改。
func NormalizeReferences(refs []VideoReference) ([]VideoReference, error) {
	if len(refs) == 0 {
		return []VideoReference{}, nil
	}
	out := make([]VideoReference, len(refs))
	for i, ref := range refs {
		segments := make([]Segment, len(ref.Segments))
		for j, seg := range ref.Segments {
			if !isFinite(seg.StartTime) || !isFinite(seg.EndTime) {
				return nil, ErrInvalidTimestamp
			}
			if seg.StartTime < 0 || seg.EndTime <= seg.StartTime {
				return nil, ErrInvalidTimestamp
			}
			seg.RelevanceScore = clampScore(seg.RelevanceScore)
			segments[j] = seg
		}
		sort.SliceStable(segments, func(a, b int) bool {
			return segments[a].StartTime < segments[b].StartTime
		})
		ref.Segments = segments
		out[i] = ref
	}
	return out, nil
}

// UserMessageCount 返回对话中用户消息的数量。
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// clampScore 将相关性分数收敛到 [0,1]，分数仅作展示用的排序参考。
func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
