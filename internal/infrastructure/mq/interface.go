// Package mq 负责把聊天领域事件发布到消息队列
// kafka 模式写入 Kafka 主题供下游消费，channel 模式不对外发布
package mq

import (
	"context"
	"time"
)

// 事件类型
const (
	EventMessageCreated = "message.created"
	EventMessageRead    = "message.read"
)

// Event 领域事件
// Key 决定 Kafka 分区，同一对话的事件落在同一分区以保持顺序
type Event struct {
	Type       string      `json:"type"`
	Key        string      `json:"-"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// MessageReadPayload message.read 事件内容
type MessageReadPayload struct {
	SenderId   string    `json:"sender_id"`
	ReceiverId string    `json:"receiver_id"`
	Count      int64     `json:"count"`
	ReadAt     time.Time `json:"read_at"`
}

// EventPublisher 事件发布接口
// 发布失败只影响下游，调用方记录日志后继续
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ConversationKey 两个用户之间对话的分区键，与参数顺序无关
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
