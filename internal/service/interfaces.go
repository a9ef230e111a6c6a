// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层和实时通道调用
package service

import (
	"context"
	"time"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
)

// UserService 用户业务接口
type UserService interface {
	// Register 注册
	Register(ctx context.Context, req request.RegisterRequest) (*model.UserInfo, error)
	// Login 密码登录
	Login(ctx context.Context, req request.LoginRequest) (*model.UserInfo, error)
	// GetUserInfo 获取用户公开资料（含在线状态）
	GetUserInfo(ctx context.Context, uuid string) (*respond.UserProfileRespond, error)
	// SearchUsers 搜索用户
	SearchUsers(ctx context.Context, ownerId, keyword string) ([]respond.SearchUserRespond, error)
	// UpdateUserInfo 修改当前用户资料
	UpdateUserInfo(ctx context.Context, ownerId string, req request.UpdateUserInfoRequest) (*respond.UserRespond, error)
}

// SessionService 登录会话接口
type SessionService interface {
	// CreateSession 创建会话，返回 Cookie 值与过期时间
	CreateSession(ctx context.Context, userId string) (string, time.Time, error)
	// ResolveSession 由 Cookie 值解析当前用户
	ResolveSession(ctx context.Context, token string) (*model.UserInfo, error)
	// DeleteSession 注销
	DeleteSession(ctx context.Context, token string) error
	// PurgeExpired 清理过期会话
	PurgeExpired(ctx context.Context) (int64, error)
}

// MessageService 消息存储接口
type MessageService interface {
	// CreateMessage 持久化一条消息
	CreateMessage(ctx context.Context, senderId, receiverId, content, kind string) (*respond.MessageRespond, error)
	// MarkRead 标记 senderId 发给 receiverId 的消息为已读
	MarkRead(ctx context.Context, senderId, receiverId string) (int64, error)
	// GetConversation 两人之间的聊天记录
	GetConversation(ctx context.Context, userOneId, userTwoId string) ([]respond.MessageRespond, error)
	// RecentConversations 最近会话列表
	RecentConversations(ctx context.Context, userId string) ([]respond.ChatListItemRespond, error)
}
