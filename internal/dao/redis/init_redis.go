package redis

import (
	"context"
	"strconv"
	"time"

	"pulse_chat_server/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheWorkerNum  = 15
	cacheBufferSize = 3000
)

// Init 按配置创建缓存服务
// 未启用 Redis 时返回进程内实现，连接失败直接退出
func Init(cfg config.RedisConfig) AsyncCacheService {
	if !cfg.Enabled {
		zap.L().Info("redis disabled, using in-process cache")
		return NewMemoryCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Db,
		PoolSize:     50,
		MinIdleConns: cacheWorkerNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Fatal("connect redis failed", zap.String("addr", client.Options().Addr), zap.Error(err))
	}
	return NewRedisCache(client, cacheWorkerNum, cacheBufferSize)
}
