package handler

import (
	"strconv"

	"tube-chat-go/internal/model"
	"tube-chat-go/internal/service"
	"tube-chat-go/pkg/youtube"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler 处理视频证据聚合与时间戳跳转链接相关的 API 请求。
type ReferenceHandler struct {
	referenceService service.ReferenceService
}

// NewReferenceHandler 创建一个新的 ReferenceHandler。
func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ListReferences 返回对话中全部助手消息的视频引用（按回答顺序，不去重）。
func (h *ReferenceHandler) ListReferences(c *gin.Context) {
	refs, err := h.referenceService.CollectReferences(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, refs)
}

// GetPlaybackURL 构造指定视频与起播时间的跳转信息：
// 观看链接、内嵌播放器链接与 "M:SS" 时间标签。
func (h *ReferenceHandler) GetPlaybackURL(c *gin.Context) {
	videoID := c.Query("videoId")
	if videoID == "" {
		respondBadRequest(c, "缺少 videoId 参数")
		return
	}
	start, err := strconv.ParseFloat(c.DefaultQuery("start", "0"), 64)
	if err != nil {
		respondError(c, model.ErrInvalidTimestamp)
		return
	}

	watchURL, err := youtube.WatchURL(videoID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	embedURL, err := youtube.EmbedURL(videoID, start)
	if err != nil {
		respondError(c, err)
		return
	}
	label, err := youtube.FormatTimestampLabel(start)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{
		"watchUrl": watchURL,
		"embedUrl": embedURL,
		"label":    label,
	})
}
