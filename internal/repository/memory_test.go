package repository_test

import (
	"context"
	"testing"
	"time"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositorySaveAndGet(t *testing.T) {
	repo := repository.NewMemoryConversationRepository()
	ctx := context.Background()

	conv := &model.Conversation{
		ID:        "conv-1",
		ChannelID: "ch-1",
		Messages: []model.Message{
			{ID: "m1", Role: model.RoleUser, Content: "hello", CreatedAt: time.Now().Truncate(time.Second)},
		},
		CreatedAt: time.Now().Truncate(time.Second),
	}
	require.NoError(t, repo.Save(ctx, conv))

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, conv.ChannelID, got.ChannelID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestMemoryRepositoryGetMissing(t *testing.T) {
	repo := repository.NewMemoryConversationRepository()
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemoryRepositoryIsolatesStoredDocument(t *testing.T) {
	repo := repository.NewMemoryConversationRepository()
	ctx := context.Background()

	conv := &model.Conversation{ID: "conv-1", ChannelID: "ch-1", Messages: []model.Message{}}
	require.NoError(t, repo.Save(ctx, conv))

	// 入库后修改调用方的对象不影响已存文档
	conv.Messages = append(conv.Messages, model.Message{ID: "m1", Role: model.RoleUser, Content: "mutated"})

	got, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, got.Messages)

	// 两次读取互不共享可变对象
	first, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	first.ChannelID = "ch-other"
	second, err := repo.Get(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "ch-1", second.ChannelID)
}
