package model

// ChannelProcessingStatus 是频道注册表上报的处理状态。
type ChannelProcessingStatus string

const (
	ChannelStatusPending    ChannelProcessingStatus = "pending"
	ChannelStatusProcessing ChannelProcessingStatus = "processing"
	ChannelStatusCompleted  ChannelProcessingStatus = "completed"
	ChannelStatusError      ChannelProcessingStatus = "error"
)

// TranscriptStatus 是视频目录上报的转写可用状态。
type TranscriptStatus string

const (
	TranscriptStatusPending      TranscriptStatus = "pending"
	TranscriptStatusAvailable    TranscriptStatus = "available"
	TranscriptStatusNotAvailable TranscriptStatus = "not_available"
	TranscriptStatusError        TranscriptStatus = "error"
)

// Channel 代表一个 YouTube 频道的本地镜像记录。
// 生命周期由频道注册表（同步链路）拥有，对话侧只读。
type Channel struct {
	ID               string                  `gorm:"primaryKey;size:64" json:"id"`
	Title            string                  `gorm:"size:255;not null" json:"title"`
	Description      string                  `gorm:"type:text" json:"description"`
	ThumbnailURL     string                  `gorm:"size:512" json:"thumbnailUrl"`
	VideoCount       int                     `gorm:"not null;default:0" json:"videoCount"`
	ProcessingStatus ChannelProcessingStatus `gorm:"size:32;not null;default:pending" json:"processingStatus"`
	LastSyncedAt     *LocalTime              `json:"lastSyncedAt,omitempty"`
}

func (Channel) TableName() string {
	return "channels"
}

// Video 代表频道下一个视频的本地镜像记录，生命周期由视频目录拥有。
type Video struct {
	ID               string           `gorm:"primaryKey;size:64" json:"id"`
	ChannelID        string           `gorm:"index;size:64;not null" json:"channelId"`
	YouTubeVideoID   string           `gorm:"column:youtube_video_id;size:32;not null" json:"youtubeVideoId"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	ThumbnailURL     string           `gorm:"size:512" json:"thumbnailUrl"`
	PublishedAt      LocalDate        `json:"publishedAt"`
	Duration         string           `gorm:"size:16" json:"duration"`
	ViewCount        int64            `gorm:"not null;default:0" json:"viewCount"`
	TranscriptStatus TranscriptStatus `gorm:"size:32;not null;default:pending" json:"transcriptStatus"`
}

func (Video) TableName() string {
	return "videos"
}
