package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/service"
	"tube-chat-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源
	},
}

// ChatHandler 负责处理 WebSocket 聊天连接。
// 客户端发送 {"type":"ask","content":"..."} 发起提问，
// 发送 {"type":"stop"} 取消在途的回答生成；服务端推送
// pending / answer / stopped / error / completion 通知。
type ChatHandler struct {
	chatService         service.ChatService
	conversationService service.ConversationService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService, conversationService service.ConversationService) *ChatHandler {
	return &ChatHandler{
		chatService:         chatService,
		conversationService: conversationService,
	}
}

// wsSession 封装一条连接：gorilla/websocket 要求单写者，写操作加锁。
type wsSession struct {
	conn *websocket.Conn
	mu   sync.Mutex

	cancelMu sync.Mutex
	cancel   context.CancelFunc // 在途回答的取消函数，无在途时为 nil
}

func (s *wsSession) writeJSON(v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		log.Warnf("写入 WebSocket 消息失败: %v", err)
	}
}

func (s *wsSession) setCancel(cancel context.CancelFunc) bool {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel != nil {
		return false
	}
	s.cancel = cancel
	return true
}

func (s *wsSession) clearCancel() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	s.cancel = nil
}

func (s *wsSession) stop() bool {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

type chatCommand struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Handle 处理一个传入的 WebSocket 连接。
func (h *ChatHandler) Handle(c *gin.Context) {
	conversationID := c.Param("conversationId")
	if _, err := h.conversationService.GetConversation(c.Request.Context(), conversationID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket 升级失败", err)
		return
	}
	defer conn.Close()

	log.Infof("WebSocket 连接已建立，对话: %s", conversationID)
	session := &wsSession{conn: conn}
	// 连接断开时取消在途回答
	defer session.stop()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Warnf("从 WebSocket 读取消息失败: %v", err)
			break
		}

		var cmd chatCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			session.writeJSON(gin.H{"type": "error", "message": "无法解析的消息"})
			continue
		}

		switch cmd.Type {
		case "stop":
			if session.stop() {
				session.writeJSON(gin.H{
					"type":      "stop",
					"message":   "响应已停止",
					"timestamp": time.Now().UnixMilli(),
					"date":      time.Now().Format("2006-01-02T15:04:05"),
				})
			} else {
				session.writeJSON(gin.H{"type": "error", "message": "当前没有在途的回答"})
			}
		case "ask":
			h.handleAsk(session, conversationID, cmd.Content)
		default:
			session.writeJSON(gin.H{"type": "error", "message": "未知的消息类型"})
		}
	}
}

// handleAsk 异步执行一轮问答，期间保持读取循环可接收 stop 指令。
func (h *ChatHandler) handleAsk(session *wsSession, conversationID, content string) {
	ctx, cancel := context.WithCancel(context.Background())
	if !session.setCancel(cancel) {
		cancel()
		session.writeJSON(gin.H{"type": "error", "message": "已有在途的回答，请先等待或停止"})
		return
	}

	session.writeJSON(gin.H{
		"type":           "pending",
		"conversationId": conversationID,
		"timestamp":      time.Now().UnixMilli(),
	})

	go func() {
		defer session.clearCancel()

		result, err := h.chatService.Ask(ctx, conversationID, content)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				// 停止指令生效：消息序列保持原样
				session.writeJSON(gin.H{"type": "stopped", "conversationId": conversationID})
				return
			}
			log.Errorf("处理问答失败: %v", err)
			session.writeJSON(gin.H{"type": "error", "message": wsErrorMessage(err)})
			sendCompletion(session)
			return
		}

		session.writeJSON(gin.H{"type": "answer", "data": result})
		sendCompletion(session)
	}()
}

// sendCompletion 发送完成通知 JSON
func sendCompletion(session *wsSession) {
	session.writeJSON(gin.H{
		"type":      "completion",
		"status":    "finished",
		"message":   "响应已完成",
		"timestamp": time.Now().UnixMilli(),
		"date":      time.Now().Format("2006-01-02T15:04:05"),
	})
}

// wsErrorMessage 将领域错误转为推送给客户端的提示文案。
func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrEmptyContent):
		return "消息内容不能为空"
	case errors.Is(err, model.ErrNotFound):
		return "对话不存在"
	case errors.Is(err, model.ErrRetrievalTimeout):
		return "AI服务响应超时，请重试"
	case errors.Is(err, model.ErrRetrievalUnavailable):
		return "AI服务暂时不可用，请稍后重试"
	default:
		return "服务器内部错误"
	}
}
