package model

import "errors"

// 领域错误。各层通过 errors.Is 区分错误类别，handler 据此映射 HTTP 状态码，
// 全部为调用方可恢复的错误。
var (
	// ErrInvalidChannel 频道标识为空或频道注册表中不存在该频道。
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrNotFound 目标对话不存在。
	ErrNotFound = errors.New("conversation not found")
	// ErrEmptyContent 用户消息内容去除空白后为空。
	ErrEmptyContent = errors.New("message content is empty")
	// ErrNoPriorUserMessage 对话中没有任何用户消息时不允许追加助手消息。
	ErrNoPriorUserMessage = errors.New("assistant message requires a prior user message")
	// ErrInvalidTimestamp 时间值为负、非有限数或片段区间不满足 0 <= start < end。
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrRetrievalUnavailable 外部检索引擎不可用。
	ErrRetrievalUnavailable = errors.New("retrieval engine unavailable")
	// ErrRetrievalTimeout 检索调用超时，效果等同于取消。
	ErrRetrievalTimeout = errors.New("retrieval request timed out")
)
