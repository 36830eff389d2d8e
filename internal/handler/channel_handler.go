package handler

import (
	"net/http"

	"tube-chat-go/internal/service"

	"github.com/gin-gonic/gin"
)

// ChannelHandler 处理频道与视频列表相关的 API 请求。
type ChannelHandler struct {
	channelService service.ChannelService
}

// NewChannelHandler 创建一个新的 ChannelHandler。
func NewChannelHandler(channelService service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// ListChannels 返回全部频道。
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.channelService.ListChannels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, channels)
}

// GetChannel 返回单个频道。
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	channel, err := h.channelService.GetChannel(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, channel)
}

// ListVideos 返回频道下的视频列表。
func (h *ChannelHandler) ListVideos(c *gin.Context) {
	videos, err := h.channelService.ListVideos(c.Request.Context(), c.Param("channelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, videos)
}

// RefreshChannel 触发一次频道内容同步，任务异步执行。
func (h *ChannelHandler) RefreshChannel(c *gin.Context) {
	channelID := c.Param("channelId")
	if err := h.channelService.RequestSync(c.Request.Context(), channelID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"code": http.StatusAccepted, "message": "同步任务已接受", "data": gin.H{"channelId": channelID}})
}
