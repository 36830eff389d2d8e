package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tube-chat-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversation(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()

	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "ch-1", conv.ChannelID)
	assert.Empty(t, conv.Messages)
}

func TestCreateConversationRejectsInvalidChannel(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()

	_, err := svc.CreateConversation(ctx, "")
	assert.ErrorIs(t, err, model.ErrInvalidChannel)

	_, err = svc.CreateConversation(ctx, "   ")
	assert.ErrorIs(t, err, model.ErrInvalidChannel)

	// 注册表中不存在的频道
	_, err = svc.CreateConversation(ctx, "ch-unknown")
	assert.ErrorIs(t, err, model.ErrInvalidChannel)
}

func TestAppendUserMessageTrimsContent(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	msg, err := svc.AppendUserMessage(ctx, conv.ID, "  What is cloud computing?  \n")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, msg.Role)
	assert.Equal(t, "What is cloud computing?", msg.Content)
	assert.Nil(t, msg.References)

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "What is cloud computing?", messages[len(messages)-1].Content)
}

func TestAppendUserMessageRejectsEmptyContent(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	for _, content := range []string{"", "   ", "\t\n"} {
		_, err := svc.AppendUserMessage(ctx, conv.ID, content)
		assert.ErrorIs(t, err, model.ErrEmptyContent, "content=%q", content)
	}

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendUserMessageUnknownConversation(t *testing.T) {
	svc := newTestConversationService()
	_, err := svc.AppendUserMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAppendAssistantMessageRequiresPriorUserMessage(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	_, err = svc.AppendAssistantMessage(ctx, conv.ID, "answer", nil)
	assert.ErrorIs(t, err, model.ErrNoPriorUserMessage)

	// 失败的追加不留任何痕迹
	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAppendAssistantMessageNormalizesSegments(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	_, err = svc.AppendUserMessage(ctx, conv.ID, "question")
	require.NoError(t, err)

	refs := []model.VideoReference{{
		VideoID:        "1",
		YouTubeVideoID: "dQw4w9WgXcQ",
		VideoTitle:     "Introduction to Cloud Computing",
		Segments: []model.Segment{
			{TranscriptID: "t1", StartTime: 10, EndTime: 20, Text: "later"},
			{TranscriptID: "t2", StartTime: 5, EndTime: 8, Text: "earlier"},
		},
	}}
	_, err = svc.AppendAssistantMessage(ctx, conv.ID, "answer", refs)
	require.NoError(t, err)

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	got := messages[1].References[0].Segments
	require.Len(t, got, 2)
	assert.Equal(t, 5.0, got[0].StartTime)
	assert.Equal(t, 10.0, got[1].StartTime)
}

func TestAppendAssistantMessageAllowsEmptyReferences(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	_, err = svc.AppendUserMessage(ctx, conv.ID, "question")
	require.NoError(t, err)

	msg, err := svc.AppendAssistantMessage(ctx, conv.ID, "answer without sources", nil)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAssistant, msg.Role)
	assert.Empty(t, msg.References)
}

func TestAppendAssistantMessageRejectsInvalidSegment(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	_, err = svc.AppendUserMessage(ctx, conv.ID, "question")
	require.NoError(t, err)

	refs := []model.VideoReference{{
		VideoID:  "1",
		Segments: []model.Segment{{StartTime: 20, EndTime: 10}},
	}}
	_, err = svc.AppendAssistantMessage(ctx, conv.ID, "answer", refs)
	assert.ErrorIs(t, err, model.ErrInvalidTimestamp)

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestMessageTimestampsMonotonic(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := svc.AppendUserMessage(ctx, conv.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	for i := 1; i < len(messages); i++ {
		assert.False(t, messages[i].CreatedAt.Before(messages[i-1].CreatedAt),
			"message %d created before message %d", i, i-1)
	}
}

func TestConcurrentAppendsSerialize(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	_, err = svc.AppendUserMessage(ctx, conv.ID, "question")
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AppendAssistantMessage(ctx, conv.ID, fmt.Sprintf("answer %d", i), nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// 并发追加全部落盘，没有交错或丢失的条目
	messages, err := svc.ListMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1+workers)
	seen := make(map[string]bool)
	for _, m := range messages[1:] {
		assert.Equal(t, model.RoleAssistant, m.Role)
		assert.NotEmpty(t, m.ID)
		assert.False(t, seen[m.Content], "duplicate message %q", m.Content)
		seen[m.Content] = true
	}
}

func TestStatusAndBeginGeneration(t *testing.T) {
	svc := newTestConversationService()
	ctx := context.Background()
	conv, err := svc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	status, err := svc.Status(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConversationStatusIdle, status)

	release, err := svc.BeginGeneration(ctx, conv.ID)
	require.NoError(t, err)

	status, err = svc.Status(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConversationStatusAwaiting, status)

	// 席位被占用时，第二次获取会等待；ctx 取消则放弃
	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = svc.BeginGeneration(waitCtx, conv.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	status, err = svc.Status(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ConversationStatusIdle, status)

	// release 幂等
	release()
	release2, err := svc.BeginGeneration(ctx, conv.ID)
	require.NoError(t, err)
	release2()
}

func TestStatusUnknownConversation(t *testing.T) {
	svc := newTestConversationService()
	_, err := svc.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
