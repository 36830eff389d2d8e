package handler

import (
	"tube-chat-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与对话相关的 API 请求。
type ConversationHandler struct {
	conversationService service.ConversationService
	chatService         service.ChatService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(conversationService service.ConversationService, chatService service.ChatService) *ConversationHandler {
	return &ConversationHandler{
		conversationService: conversationService,
		chatService:         chatService,
	}
}

type createConversationRequest struct {
	ChannelID string `json:"channelId" binding:"required"`
}

// CreateConversation 创建一个绑定到频道的新对话。
// 前端切换频道时调用本接口开启新对话，旧对话保持不变。
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数不合法")
		return
	}

	conv, err := h.conversationService.CreateConversation(c.Request.Context(), req.ChannelID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, conv)
}

// ListMessages 按追加顺序返回对话的全部消息。
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	messages, err := h.conversationService.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, messages)
}

type askRequest struct {
	Content string `json:"content" binding:"required"`
}

// Ask 发起一轮阻塞式问答，请求上下文取消即取消在途检索。
func (h *ConversationHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "请求参数不合法")
		return
	}

	result, err := h.chatService.Ask(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// GetStatus 返回对话的瞬时状态，供前端渲染等待指示器。
func (h *ConversationHandler) GetStatus(c *gin.Context) {
	status, err := h.conversationService.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": status})
}
