package model

// Badge 是前端状态角标的取值。上游状态枚举经投影收敛到这组值，
// 未识别的上游值一律落到 BadgeError，渲染层不会因上游演进而崩溃。
type Badge string

const (
	BadgePending      Badge = "pending"
	BadgeProcessing   Badge = "processing"
	BadgeCompleted    Badge = "completed"
	BadgeAvailable    Badge = "available"
	BadgeNotAvailable Badge = "not_available"
	BadgeError        Badge = "error"
)

// ChannelBadge 将频道注册表的处理状态投影为前端角标。
// 对每个输入值全函数，未识别的状态闭合到 BadgeError。
func ChannelBadge(s ChannelProcessingStatus) Badge {
	switch s {
	case ChannelStatusPending:
		return BadgePending
	case ChannelStatusProcessing:
		return BadgeProcessing
	case ChannelStatusCompleted:
		return BadgeCompleted
	case ChannelStatusError:
		return BadgeError
	default:
		return BadgeError
	}
}

// TranscriptBadge 将视频目录的转写状态投影为前端角标。
// 未识别的状态同样闭合到 BadgeError。
func TranscriptBadge(s TranscriptStatus) Badge {
	switch s {
	case TranscriptStatusPending:
		return BadgePending
	case TranscriptStatusAvailable:
		return BadgeAvailable
	case TranscriptStatusNotAvailable:
		return BadgeNotAvailable
	case TranscriptStatusError:
		return BadgeError
	default:
		return BadgeError
	}
}
