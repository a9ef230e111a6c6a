package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse_chat_server/internal/config"
	dao "pulse_chat_server/internal/dao/mysql"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/handler"
	"pulse_chat_server/internal/https_server"
	"pulse_chat_server/internal/infrastructure/logger"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/infrastructure/mq"
	"pulse_chat_server/internal/router"
	"pulse_chat_server/internal/service"
	"pulse_chat_server/internal/service/chat"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/util/jwt"
	"pulse_chat_server/pkg/util/snowflake"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// purgeInterval 过期会话清理间隔
const purgeInterval = time.Hour

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	// 3. 初始化 ID 生成与会话签名
	snowflake.Init(conf.SnowflakeConfig.MachineID)
	jwt.Init(conf.SessionConfig.Secret)

	// 4. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 5. 初始化缓存，并清空上次运行遗留的在线状态
	cache := myredis.Init(conf.RedisConfig)
	if err := chat.ResetPresence(context.Background(), cache, constants.ONLINE_USERS_KEY); err != nil {
		zap.L().Warn("reset presence failed", zap.Error(err))
	}
	zap.L().Info("缓存初始化成功", zap.Bool("redis", conf.RedisConfig.Enabled))

	// 6. 初始化事件发布
	publisher := mq.Init(conf.KafkaConfig)
	zap.L().Info("事件发布初始化成功", zap.String("mode", conf.KafkaConfig.MessageMode))

	// 7. 初始化 Service 层 (依赖注入)
	svc := service.NewServices(repos, cache, publisher, conf.SessionConfig)

	// 8. 初始化 ChatServer
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	chatServer := chat.NewChatServer(chat.ChatServerConfig{
		Store:     svc.Message,
		Presence:  cache,
		Publisher: publisher,
		Metrics:   chat.NewMetrics(registry),
		Websocket: conf.WebsocketConfig,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || conf.MainConfig.OriginAllowed(origin)
		},
	})
	zap.L().Info("ChatServer 初始化成功")

	// 9. 初始化 HTTP 服务器
	if err := handler.InitTrans("en"); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}
	limiter := middleware.NewIPRateLimiter(conf.RateLimitConfig.AuthRequestsPerMinute, conf.RateLimitConfig.Burst)
	cookie := handler.CookieOptions{Name: conf.SessionConfig.CookieName, Secure: conf.MainConfig.IsRelease()}
	engine := https_server.Init(conf.MainConfig, router.Deps{
		Handlers:    handler.NewHandlers(svc, chatServer.Gateway, cookie),
		Auth:        middleware.SessionAuth(svc.Session, cookie.Name),
		AuthLimiter: limiter.Handler(),
		Gatherer:    registry,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 10. 定期清理过期会话
	ctx, stop := context.WithCancel(context.Background())
	go purgeSessions(ctx, svc.Session)

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	stop()
	limiter.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("http shutdown failed", zap.Error(err))
	}
	// 升级后的连接不受 Shutdown 管理，需要单独关闭
	chatServer.Close()
	if err := cache.Close(); err != nil {
		zap.L().Error("close cache failed", zap.Error(err))
	}
	if err := repos.Close(); err != nil {
		zap.L().Error("close database failed", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}

func purgeSessions(ctx context.Context, sessions service.SessionService) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PurgeExpired(ctx)
			if err != nil {
				zap.L().Warn("purge expired sessions failed", zap.Error(err))
				continue
			}
			if n > 0 {
				zap.L().Info("expired sessions purged", zap.Int64("count", n))
			}
		}
	}
}
