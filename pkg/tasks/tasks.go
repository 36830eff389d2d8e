// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// ChannelSyncTask represents a request to re-ingest one channel's content.
type ChannelSyncTask struct {
	ChannelID   string `json:"channel_id"`
	RequestedAt int64  `json:"requested_at"` // Unix 毫秒，供消费端记录排队时长
}
