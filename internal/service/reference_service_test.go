package service_test

import (
	"context"
	"testing"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectReferencesEmptyConversation(t *testing.T) {
	convSvc := newTestConversationService()
	refSvc := service.NewReferenceService(convSvc)
	ctx := context.Background()

	conv, err := convSvc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	refs, err := refSvc.CollectReferences(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestCollectReferencesKeepsPerAnswerProvenance(t *testing.T) {
	convSvc := newTestConversationService()
	refSvc := service.NewReferenceService(convSvc)
	ctx := context.Background()

	conv, err := convSvc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)

	ref := func(segStart float64) []model.VideoReference {
		return []model.VideoReference{{
			VideoID:        "1",
			YouTubeVideoID: "dQw4w9WgXcQ",
			VideoTitle:     "Introduction to Cloud Computing",
			Segments: []model.Segment{
				{TranscriptID: "t1", StartTime: segStart, EndTime: segStart + 10, Text: "segment"},
			},
		}}
	}

	_, err = convSvc.AppendUserMessage(ctx, conv.ID, "first question")
	require.NoError(t, err)
	_, err = convSvc.AppendAssistantMessage(ctx, conv.ID, "first answer", ref(30))
	require.NoError(t, err)
	_, err = convSvc.AppendUserMessage(ctx, conv.ID, "second question")
	require.NoError(t, err)
	_, err = convSvc.AppendAssistantMessage(ctx, conv.ID, "second answer", ref(120))
	require.NoError(t, err)

	refs, err := refSvc.CollectReferences(ctx, conv.ID)
	require.NoError(t, err)

	// 两条回答引用同一视频，各保留一条，顺序跟随回答顺序
	require.Len(t, refs, 2)
	assert.Equal(t, 30.0, refs[0].Segments[0].StartTime)
	assert.Equal(t, 120.0, refs[1].Segments[0].StartTime)
}

func TestCollectReferencesSkipsUserMessages(t *testing.T) {
	convSvc := newTestConversationService()
	refSvc := service.NewReferenceService(convSvc)
	ctx := context.Background()

	conv, err := convSvc.CreateConversation(ctx, "ch-1")
	require.NoError(t, err)
	_, err = convSvc.AppendUserMessage(ctx, conv.ID, "a question without an answer yet")
	require.NoError(t, err)

	refs, err := refSvc.CollectReferences(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestCollectReferencesUnknownConversation(t *testing.T) {
	refSvc := service.NewReferenceService(newTestConversationService())
	_, err := refSvc.CollectReferences(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
