// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息模型，对应 user_info 表
type UserInfo struct {
	// Uuid 用户唯一标识（uuid v4）
	Uuid string `gorm:"column:uuid;primaryKey;type:varchar(36);comment:用户唯一id"`

	Username string `gorm:"column:username;uniqueIndex;type:varchar(50);not null;comment:用户名"`

	// 注册时 Email / Phone 恰好填一个，未填写时为 NULL，唯一索引允许多个 NULL
	Email *string `gorm:"column:email;uniqueIndex;type:varchar(100);comment:邮箱"`
	Phone *string `gorm:"column:phone;uniqueIndex;type:varchar(20);comment:电话"`

	// Password bcrypt 哈希，永不序列化
	Password *string `gorm:"column:password;type:varchar(100);comment:密码" json:"-"`

	AvatarUrl string    `gorm:"column:avatar_url;type:varchar(255);comment:头像"`
	CreatedAt time.Time `gorm:"column:created_at;comment:注册时间"`

	// RawPassword 明文密码，不落库，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave 创建和更新前把 RawPassword 加密写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		u.Password = &hashed
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验密码，没有设置密码的账号一律失败
func (u *UserInfo) CheckPassword(plaintext string) bool {
	if u.Password == nil || *u.Password == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(plaintext))
	return err == nil
}
