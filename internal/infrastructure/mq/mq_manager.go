package mq

import (
	"pulse_chat_server/internal/config"
)

const (
	ModeChannel = "channel"
	ModeKafka   = "kafka"
)

// Init 按 messageMode 选择事件发布者
func Init(cfg config.KafkaConfig) EventPublisher {
	if cfg.MessageMode == ModeKafka {
		return NewKafkaPublisher(cfg)
	}
	return NopPublisher{}
}
