// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"pulse_chat_server/internal/service"
	"pulse_chat_server/internal/service/chat"
)

// Handlers 聚合所有 Handler 实例，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Message *MessageHandler
	Ws      *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, gateway *chat.Gateway, cookie CookieOptions) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.User, svc.Session, cookie),
		User:    NewUserHandler(svc.User),
		Message: NewMessageHandler(svc.Message),
		Ws:      NewWsHandler(gateway, svc.Session, cookie.Name),
	}
}
