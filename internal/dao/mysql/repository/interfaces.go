// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"context"
	"time"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error)
	// FindByUuids 批量查找，不存在的 UUID 直接忽略
	FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(ctx context.Context, email string) (*model.UserInfo, error)
	// FindByPhone 根据手机号查找用户
	FindByPhone(ctx context.Context, phone string) (*model.UserInfo, error)
	// Search 按用户名/邮箱/手机号模糊匹配，排除 excludeUuid
	Search(ctx context.Context, keyword, excludeUuid string, limit int) ([]model.UserInfo, error)
	// Create 创建新用户，唯一键冲突返回 CodeDuplicate
	Create(ctx context.Context, user *model.UserInfo) error
	// Updates 按字段部分更新
	Updates(ctx context.Context, uuid string, fields map[string]interface{}) error
}

// SessionRepository 登录会话数据访问接口
type SessionRepository interface {
	// Create 创建会话
	Create(ctx context.Context, session *model.Session) error
	// FindByUuid 查找会话，不检查过期
	FindByUuid(ctx context.Context, uuid string) (*model.Session, error)
	// DeleteByUuid 删除会话，不存在时不报错
	DeleteByUuid(ctx context.Context, uuid string) error
	// DeleteExpired 删除 before 之前过期的会话，返回删除条数
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// Create 写入消息
	Create(ctx context.Context, message *model.Message) error
	// FindConversation 两个用户之间的全部消息，按 (created_at, id) 升序
	FindConversation(ctx context.Context, userOneId, userTwoId string) ([]model.Message, error)
	// MarkRead 把 senderId 发给 receiverId 的未读消息标记为已读，返回更新条数
	MarkRead(ctx context.Context, senderId, receiverId string, readAt time.Time) (int64, error)
	// FindLatestPerCounterpart 与每个对话方的最新一条消息，按 (created_at, id) 降序
	FindLatestPerCounterpart(ctx context.Context, userId string) ([]model.Message, error)
	// CountUnreadBySender 发给 receiverId 的未读消息数，按发送者分组
	CountUnreadBySender(ctx context.Context, receiverId string) (map[string]int64, error)
}

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db      *gorm.DB
	User    UserRepository
	Session SessionRepository
	Message MessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:      db,
		User:    NewUserRepository(db),
		Session: NewSessionRepository(db),
		Message: NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// fn 返回错误时整个事务回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Close 关闭底层连接池，进程退出时调用
func (r *Repositories) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
