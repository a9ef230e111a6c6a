// Package session 实现登录会话：签发、解析、注销
// 解析结果按会话 ID 缓存，缓存时长不超过会话剩余有效期
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/jwt"
)

// sessionService 会话业务逻辑实现
type sessionService struct {
	repos    *repository.Repositories
	cache    myredis.CacheService
	expiry   time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

// NewSessionService 构造函数，注入所有依赖
func NewSessionService(repos *repository.Repositories, cache myredis.CacheService, cfg config.SessionConfig) *sessionService {
	expiry := cfg.SessionExpiry()
	if expiry <= 0 {
		expiry = constants.SESSION_EXPIRY_HOURS * time.Hour
	}
	return &sessionService{
		repos:    repos,
		cache:    cache,
		expiry:   expiry,
		cacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
		now:      time.Now,
	}
}

// CreateSession 为用户创建会话，返回 Cookie 值和过期时间
func (s *sessionService) CreateSession(ctx context.Context, userId string) (string, time.Time, error) {
	now := s.now()
	sess := &model.Session{
		Uuid:      uuid.NewString(),
		UserId:    userId,
		ExpiresAt: now.Add(s.expiry),
		CreatedAt: now,
	}
	if err := s.repos.Session.Create(ctx, sess); err != nil {
		zap.L().Error("create session failed", zap.String("user_id", userId), zap.Error(err))
		return "", time.Time{}, errorx.ErrServerBusy
	}

	token, err := jwt.GenerateSessionToken(sess.Uuid, userId, sess.ExpiresAt)
	if err != nil {
		zap.L().Error("sign session token failed", zap.Error(err))
		return "", time.Time{}, errorx.ErrServerBusy
	}
	return token, sess.ExpiresAt, nil
}

// ResolveSession 解析 Cookie 值得到当前用户
// token 无效、会话不存在或已过期、用户不存在时返回 ErrUnauthorized
func (s *sessionService) ResolveSession(ctx context.Context, token string) (*model.UserInfo, error) {
	if token == "" {
		return nil, errorx.ErrUnauthorized
	}
	claims, err := jwt.ParseSessionToken(token)
	if err != nil {
		return nil, errorx.ErrUnauthorized
	}

	userId, err := s.lookupSessionUser(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.User.FindByUuid(ctx, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.ErrUnauthorized
		}
		zap.L().Error("load session user failed", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return user, nil
}

// lookupSessionUser 先查缓存，未命中再查库并回填
func (s *sessionService) lookupSessionUser(ctx context.Context, sessionId string) (string, error) {
	key := constants.SESSION_CACHE_PREFIX + sessionId
	if userId, err := s.cache.Get(ctx, key); err == nil && userId != "" {
		return userId, nil
	} else if err != nil {
		zap.L().Warn("session cache get failed", zap.String("key", key), zap.Error(err))
	}

	sess, err := s.repos.Session.FindByUuid(ctx, sessionId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return "", errorx.ErrUnauthorized
		}
		zap.L().Error("load session failed", zap.String("session_id", sessionId), zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	now := s.now()
	if sess.Expired(now) {
		return "", errorx.ErrUnauthorized
	}

	ttl := sess.ExpiresAt.Sub(now)
	if s.cacheTTL > 0 && s.cacheTTL < ttl {
		ttl = s.cacheTTL
	}
	// 同步回填，避免与注销时的删除乱序
	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, sess.UserId, ttl); err != nil {
			zap.L().Warn("session cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return sess.UserId, nil
}

// DeleteSession 注销会话，token 无效时视为已注销
func (s *sessionService) DeleteSession(ctx context.Context, token string) error {
	claims, err := jwt.ParseSessionToken(token)
	if err != nil {
		return nil
	}
	if err := s.repos.Session.DeleteByUuid(ctx, claims.SessionID); err != nil {
		zap.L().Error("delete session failed", zap.String("session_id", claims.SessionID), zap.Error(err))
		return errorx.ErrServerBusy
	}
	if err := s.cache.Delete(ctx, constants.SESSION_CACHE_PREFIX+claims.SessionID); err != nil {
		zap.L().Warn("session cache delete failed", zap.Error(err))
	}
	return nil
}

// PurgeExpired 清理过期会话
func (s *sessionService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.repos.Session.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, errorx.ErrServerBusy
	}
	return n, nil
}
