package repository

import (
	"context"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(ctx context.Context, uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表查找用户
func (r *userRepository) FindByUuids(ctx context.Context, uuids []string) ([]model.UserInfo, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	var users []model.UserInfo
	if err := r.db.WithContext(ctx).Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindByEmail 按邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 email=%s", email)
	}
	return &user, nil
}

// FindByPhone 按手机号查找用户
func (r *userRepository) FindByPhone(ctx context.Context, phone string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.WithContext(ctx).First(&user, "phone = ?", phone).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 phone=%s", phone)
	}
	return &user, nil
}

// Search 模糊搜索用户
func (r *userRepository) Search(ctx context.Context, keyword, excludeUuid string, limit int) ([]model.UserInfo, error) {
	var users []model.UserInfo
	pattern := "%" + keyword + "%"
	err := r.db.WithContext(ctx).
		Where("(username LIKE ? OR email LIKE ? OR phone LIKE ?) AND uuid != ?", pattern, pattern, pattern, excludeUuid).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "搜索用户 keyword=%s", keyword)
	}
	return users, nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *model.UserInfo) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Updates 部分更新用户字段
func (r *userRepository) Updates(ctx context.Context, uuid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.UserInfo{}).Where("uuid = ?", uuid).Updates(fields).Error; err != nil {
		return wrapDBErrorf(err, "更新用户 uuid=%s", uuid)
	}
	return nil
}
