package model

import "time"

// Session 登录会话，对应 session 表
// 过期的会话不主动清理，解析时视为无效
type Session struct {
	Uuid      string    `gorm:"column:uuid;primaryKey;type:varchar(36);comment:会话id"`
	UserId    string    `gorm:"column:user_id;index;type:varchar(36);not null;comment:用户id"`
	ExpiresAt time.Time `gorm:"column:expires_at;index;not null;comment:过期时间"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName 指定表名
func (Session) TableName() string {
	return "session"
}

// Expired 会话在 now 时刻是否已过期
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
