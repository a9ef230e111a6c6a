package mq

import (
	"context"
	"encoding/json"
	"time"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter kafka.Writer 的最小子集，测试时替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 基于 kafka-go 的事件发布者
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher 创建异步 Writer，写入结果在 Completion 回调里记录
// 中继路径上的 Publish 不会因 Kafka 变慢而阻塞
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	timeout := cfg.Timeout * time.Second
	if timeout <= 0 {
		timeout = time.Second
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.ChatTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				zap.L().Error("kafka publish failed", zap.Int("count", len(messages)), zap.Error(err))
			}
		},
	}
	zap.L().Info("kafka publisher ready", zap.String("addr", cfg.HostPort), zap.String("topic", cfg.ChatTopic))
	return &KafkaPublisher{writer: writer, topic: cfg.ChatTopic}
}

func newKafkaPublisherWithWriter(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish 序列化事件并写入主题
func (k *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeMQError, "marshal event %s", event.Type)
	}
	msg := kafka.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return errorx.Wrapf(err, errorx.CodeMQError, "publish event %s to %s", event.Type, k.topic)
	}
	return nil
}

// Close 刷新缓冲并关闭 Writer
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
