// server.go
// 核心职责：聊天服务器聚合结构，统一管理登记表、中继、网关与事件发布的生命周期
package chat

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/infrastructure/mq"
)

// ChatServer 聊天服务器聚合结构
type ChatServer struct {
	Registry *ConnRegistry
	Relay    *Relay
	Gateway  *Gateway
	Metrics  *Metrics

	publisher mq.EventPublisher
}

// ChatServerConfig 聊天服务器依赖
type ChatServerConfig struct {
	Store       MessageStore
	Presence    myredis.AsyncCacheService
	Publisher   mq.EventPublisher
	Metrics     *Metrics
	Websocket   config.WebsocketConfig
	CheckOrigin func(r *http.Request) bool
	Logger      *zap.Logger
}

// NewChatServer 创建聊天服务器实例
func NewChatServer(cfg ChatServerConfig) *ChatServer {
	registry := NewConnRegistry()
	relay := NewRelay(registry, cfg.Store, RelayOptions{
		Presence: cfg.Presence,
		Metrics:  cfg.Metrics,
		Logger:   cfg.Logger,
	})
	return &ChatServer{
		Registry:  registry,
		Relay:     relay,
		Gateway:   NewGateway(relay, cfg.Websocket, cfg.CheckOrigin),
		Metrics:   cfg.Metrics,
		publisher: cfg.Publisher,
	}
}

// ResetPresence 清空在线集合，进程启动时调用，避免残留上次运行的在线状态
func ResetPresence(ctx context.Context, cache myredis.CacheService, key string) error {
	return cache.Delete(ctx, key)
}

// Close 关闭所有连接，再关闭事件发布器
func (cs *ChatServer) Close() {
	cs.Gateway.Close()
	if cs.publisher != nil {
		if err := cs.publisher.Close(); err != nil {
			zap.L().Error("close event publisher failed", zap.Error(err))
		}
	}
}
