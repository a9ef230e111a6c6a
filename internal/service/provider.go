// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/infrastructure/mq"
	"pulse_chat_server/internal/service/message"
	"pulse_chat_server/internal/service/session"
	"pulse_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User    UserService
	Session SessionService
	Message MessageService
}

// NewServices 创建并注入所有 Service 实例
func NewServices(repos *repository.Repositories, cache myredis.CacheService, publisher mq.EventPublisher, cfg config.SessionConfig) *Services {
	return &Services{
		User:    user.NewUserService(repos, cache),
		Session: session.NewSessionService(repos, cache, cfg),
		Message: message.NewMessageService(repos, cache, publisher),
	}
}
