// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"net/http"
	"time"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/infrastructure/logger"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/router"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Init 创建 Gin 引擎并挂载中间件与路由
// 配置顺序：日志 -> 恢复 -> CORS -> (可选) HTTPS 跳转 -> 业务路由
func Init(cfg config.MainConfig, deps router.Deps) *gin.Engine {
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger("/metrics", "/healthz"))
	engine.Use(logger.GinRecovery(true))

	// 前端通过 Cookie 维持会话，需要 AllowCredentials，因此不能用通配来源
	engine.Use(cors.New(cors.Config{
		AllowOriginFunc:  cfg.OriginAllowed,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 由 Nginx 终结 TLS 时关闭 forceTLS
	if cfg.ForceTLS {
		engine.Use(middleware.TlsHandler(cfg.Host, cfg.Port, !cfg.IsRelease()))
	}

	router.RegisterRoutes(engine, deps)
	return engine
}
