// Package user 实现用户注册、登录、资料查询与修改、搜索
package user

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
)

// ErrUserExists 注册/修改资料时用户名、邮箱或手机号冲突
var ErrUserExists = errorx.New(errorx.CodeUserExist, "User already exists or invalid data")

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos *repository.Repositories
	cache myredis.CacheService
}

// NewUserService 构造函数，注入所有依赖
func NewUserService(repos *repository.Repositories, cache myredis.CacheService) *userInfoService {
	return &userInfoService{repos: repos, cache: cache}
}

// ToUserRespond 当前用户的完整资料
func ToUserRespond(u *model.UserInfo) respond.UserRespond {
	return respond.UserRespond{
		Id:        u.Uuid,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		AvatarUrl: u.AvatarUrl,
		CreatedAt: u.CreatedAt,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Register 注册，头像按用户名生成
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*model.UserInfo, error) {
	username := strings.TrimSpace(req.Username)
	email, phone := optional(req.Email), optional(req.Phone)
	if username == "" || req.Password == "" || (email == nil && phone == nil) {
		return nil, errorx.New(errorx.CodeInvalidParam, "Missing required fields")
	}
	if email != nil && phone != nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "Provide either email or phone, not both")
	}

	user := &model.UserInfo{
		Uuid:        uuid.NewString(),
		Username:    username,
		Email:       email,
		Phone:       phone,
		AvatarUrl:   constants.DEFAULT_AVATAR_URL + url.QueryEscape(username),
		RawPassword: req.Password,
	}
	if err := u.repos.User.Create(ctx, user); err != nil {
		if errorx.GetCode(err) == errorx.CodeDuplicate {
			return nil, ErrUserExists
		}
		zap.L().Error("register user failed", zap.String("username", username), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.String("user_id", user.Uuid))
	return user, nil
}

// Login 密码登录，identifier 含 @ 视为邮箱，否则视为手机号
// 账号不存在与密码错误返回同一个错误
func (u *userInfoService) Login(ctx context.Context, req request.LoginRequest) (*model.UserInfo, error) {
	identifier := strings.TrimSpace(req.Identifier)
	var (
		user *model.UserInfo
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = u.repos.User.FindByEmail(ctx, identifier)
	} else {
		user, err = u.repos.User.FindByPhone(ctx, identifier)
	}
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrInvalidCredentials
		}
		zap.L().Error("login lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.ErrInvalidCredentials
	}
	return user, nil
}

// GetUserInfo 查看用户公开资料
func (u *userInfoService) GetUserInfo(ctx context.Context, uuid string) (*respond.UserProfileRespond, error) {
	user, err := u.repos.User.FindByUuid(ctx, uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "User not found")
		}
		zap.L().Error("get user failed", zap.String("user_id", uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.UserProfileRespond{
		Id:        user.Uuid,
		Username:  user.Username,
		Email:     user.Email,
		Phone:     user.Phone,
		AvatarUrl: user.AvatarUrl,
		Online:    u.isOnline(ctx, user.Uuid),
	}, nil
}

// SearchUsers 按用户名/邮箱/手机号搜索，排除自己，空关键字返回空列表
func (u *userInfoService) SearchUsers(ctx context.Context, ownerId, keyword string) ([]respond.SearchUserRespond, error) {
	keyword = strings.TrimSpace(keyword)
	rsp := make([]respond.SearchUserRespond, 0)
	if keyword == "" {
		return rsp, nil
	}
	users, err := u.repos.User.Search(ctx, keyword, ownerId, constants.SEARCH_LIMIT)
	if err != nil {
		zap.L().Error("search users failed", zap.String("keyword", keyword), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for _, user := range users {
		rsp = append(rsp, respond.SearchUserRespond{
			Id:        user.Uuid,
			Username:  user.Username,
			Email:     user.Email,
			Phone:     user.Phone,
			AvatarUrl: user.AvatarUrl,
		})
	}
	return rsp, nil
}

// UpdateUserInfo 修改当前用户资料，空字段保持不变
func (u *userInfoService) UpdateUserInfo(ctx context.Context, ownerId string, req request.UpdateUserInfoRequest) (*respond.UserRespond, error) {
	fields := make(map[string]interface{})
	if v := strings.TrimSpace(req.Username); v != "" {
		fields["username"] = v
	}
	if v := optional(req.Email); v != nil {
		fields["email"] = *v
	}
	if v := optional(req.Phone); v != nil {
		fields["phone"] = *v
	}
	if v := strings.TrimSpace(req.AvatarUrl); v != "" {
		fields["avatar_url"] = v
	}

	if err := u.repos.User.Updates(ctx, ownerId, fields); err != nil {
		if errorx.GetCode(err) == errorx.CodeDuplicate {
			return nil, ErrUserExists
		}
		zap.L().Error("update user failed", zap.String("user_id", ownerId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	user, err := u.repos.User.FindByUuid(ctx, ownerId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "User not found")
		}
		return nil, errorx.ErrServerBusy
	}
	rsp := ToUserRespond(user)
	return &rsp, nil
}

func (u *userInfoService) isOnline(ctx context.Context, userId string) bool {
	online, err := u.cache.IsSetMember(ctx, constants.ONLINE_USERS_KEY, userId)
	if err != nil {
		zap.L().Warn("check online failed", zap.String("user_id", userId), zap.Error(err))
		return false
	}
	return online
}
