// Package repository 提供数据访问层的具体实现
// 本文件实现 SessionRepository 接口，处理登录会话的数据库操作
package repository

import (
	"context"
	"time"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建 SessionRepository 实例
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create 创建会话
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return wrapDBError(err, "创建会话")
	}
	return nil
}

// FindByUuid 根据会话 ID 查找
func (r *sessionRepository) FindByUuid(ctx context.Context, uuid string) (*model.Session, error) {
	var session model.Session
	if err := r.db.WithContext(ctx).First(&session, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询会话 uuid=%s", uuid)
	}
	return &session, nil
}

// DeleteByUuid 删除会话
func (r *sessionRepository) DeleteByUuid(ctx context.Context, uuid string) error {
	if err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&model.Session{}).Error; err != nil {
		return wrapDBErrorf(err, "删除会话 uuid=%s", uuid)
	}
	return nil
}

// DeleteExpired 清理过期会话
func (r *sessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", before).Delete(&model.Session{})
	if result.Error != nil {
		return 0, wrapDBError(result.Error, "清理过期会话")
	}
	return result.RowsAffected, nil
}
