package redis

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pulse_chat_server/pkg/errorx"
)

// RedisCache Redis 缓存实现，同时实现 CacheService 和 AsyncCacheService
// 只需同步读写的模块声明 CacheService 依赖即可
type RedisCache struct {
	client  *redis.Client
	workers []chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex // 保护 closed 与 workers 的关闭
	closed bool
}

// NewRedisCache 创建 Redis 缓存实例并启动 Worker Pool
// 每个 Worker 有独立队列，同一个 key 的任务总是落在同一个 Worker 上按提交顺序执行
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	if workerNum <= 0 {
		workerNum = 1
	}
	rc := &RedisCache{
		client:  client,
		workers: make([]chan func(), workerNum),
	}
	for i := range rc.workers {
		rc.workers[i] = make(chan func(), taskChanSize)
		rc.wg.Add(1)
		go rc.runWorker(rc.workers[i])
	}
	zap.L().Info("redis cache workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

func (r *RedisCache) runWorker(tasks <-chan func()) {
	defer r.wg.Done()
	for task := range tasks {
		r.runTask(task)
	}
}

// runTask 单个任务 panic 不影响 Worker
func (r *RedisCache) runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("redis cache task panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get 获取键对应的值（键不存在返回空字符串和 nil）
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// Delete 删除键
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink key %s", key)
	}
	return nil
}

// AddToSet 向集合添加成员
func (r *RedisCache) AddToSet(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SAdd(ctx, key, toArgs(members)...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis sadd key %s", key)
	}
	return nil
}

// RemoveFromSet 从集合中移除成员
func (r *RedisCache) RemoveFromSet(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	if err := r.client.SRem(ctx, key, toArgs(members)...).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis srem key %s", key)
	}
	return nil
}

// IsSetMember 判断成员是否在集合中
func (r *RedisCache) IsSetMember(ctx context.Context, key string, member string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, errorx.Wrapf(err, errorx.CodeCacheError, "redis sismember key %s", key)
	}
	return ok, nil
}

// GetSetMembers 获取集合中的所有成员
func (r *RedisCache) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeCacheError, "redis smembers key %s", key)
	}
	return members, nil
}

// SubmitTask 按 key 提交异步缓存任务
// 队列满时阻塞等待而不是同步执行，保证同一 key 的任务顺序
func (r *RedisCache) SubmitTask(key string, action func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.runTask(action)
		return
	}
	ch := r.workers[workerIndex(key, len(r.workers))]
	select {
	case ch <- action:
	default:
		zap.L().Warn("redis cache task queue full, waiting", zap.String("key", key))
		ch <- action
	}
}

// Close 等待已提交任务执行完毕后关闭连接
func (r *RedisCache) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	for _, ch := range r.workers {
		close(ch)
	}
	r.mu.Unlock()

	r.wg.Wait()
	return r.client.Close()
}

func workerIndex(key string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

func toArgs(members []string) []interface{} {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return args
}
