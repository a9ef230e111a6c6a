// Package redis 定义缓存服务接口及其实现
// Service 层依赖此接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"
)

// CacheService 缓存服务接口
type CacheService interface {
	// Set 设置键值对并指定过期时间，ttl 为 0 表示不过期
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error

	// AddToSet 向集合添加成员
	AddToSet(ctx context.Context, key string, members ...string) error
	// RemoveFromSet 从集合中移除成员
	RemoveFromSet(ctx context.Context, key string, members ...string) error
	// IsSetMember 判断成员是否在集合中
	IsSetMember(ctx context.Context, key string, member string) (bool, error)
	// GetSetMembers 获取集合中的所有成员
	GetSetMembers(ctx context.Context, key string) ([]string, error)
}

// AsyncCacheService 异步缓存服务接口
// 提供异步任务提交能力，用于不阻塞调用方的缓存更新
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步缓存任务，同一个 key 的任务按提交顺序执行
	SubmitTask(key string, action func())
	// Close 停止 Worker 并释放连接
	Close() error
}
