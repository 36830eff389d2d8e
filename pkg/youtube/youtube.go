// Package youtube provides helpers for building YouTube deep links
// and presentational timestamp labels.
package youtube

import (
	"fmt"
	"math"

	"tube-chat-go/internal/model"
)

const watchDomain = "https://www.youtube.com"

// FormatTimestampLabel 将秒数格式化为 "M:SS"（秒两位补零），分钟数不进位到小时。
// seconds 必须是非负的有限数，否则返回 ErrInvalidTimestamp。
func FormatTimestampLabel(seconds float64) (string, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "", model.ErrInvalidTimestamp
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60), nil
}

// WatchURL 构造带起播时间的标准观看链接：
// https://www.youtube.com/watch?v=<id>&t=<floor(start)>s
// startTime 向零取整（不做四舍五入），为负时返回 ErrInvalidTimestamp。
func WatchURL(youtubeVideoID string, startTime float64) (string, error) {
	if math.IsNaN(startTime) || math.IsInf(startTime, 0) || startTime < 0 {
		return "", model.ErrInvalidTimestamp
	}
	return fmt.Sprintf("%s/watch?v=%s&t=%ds", watchDomain, youtubeVideoID, int(math.Floor(startTime))), nil
}

// EmbedURL 构造内嵌播放器链接：
// https://www.youtube.com/embed/<id>?start=<floor(start)>
func EmbedURL(youtubeVideoID string, startTime float64) (string, error) {
	if math.IsNaN(startTime) || math.IsInf(startTime, 0) || startTime < 0 {
		return "", model.ErrInvalidTimestamp
	}
	return fmt.Sprintf("%s/embed/%s?start=%d", watchDomain, youtubeVideoID, int(math.Floor(startTime))), nil
}
