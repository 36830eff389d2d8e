package model

// ChannelDTO 是返回给前端的频道结构，附带状态角标与已解析的缩略图链接。
type ChannelDTO struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description"`
	ThumbnailURL     string                  `json:"thumbnailUrl"`
	VideoCount       int                     `json:"videoCount"`
	ProcessingStatus ChannelProcessingStatus `json:"processingStatus"`
	StatusBadge      Badge                   `json:"statusBadge"`
	LastSyncedAt     *LocalTime              `json:"lastSyncedAt,omitempty"`
}

// VideoDTO 是返回给前端的视频结构。
type VideoDTO struct {
	ID               string           `json:"id"`
	ChannelID        string           `json:"channelId"`
	YouTubeVideoID   string           `json:"youtubeVideoId"`
	Title            string           `json:"title"`
	ThumbnailURL     string           `json:"thumbnailUrl"`
	PublishedAt      LocalDate        `json:"publishedAt"`
	Duration         string           `json:"duration"`
	ViewCount        int64            `json:"viewCount"`
	TranscriptStatus TranscriptStatus `json:"transcriptStatus"`
	StatusBadge      Badge            `json:"statusBadge"`
}
