// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"net/http"

	"pulse_chat_server/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps 路由需要的依赖
type Deps struct {
	Handlers    *handler.Handlers
	Auth        gin.HandlerFunc // 会话认证中间件
	AuthLimiter gin.HandlerFunc // 认证接口限流，可为 nil
	Gatherer    prometheus.Gatherer
}

// RegisterRoutes 注册所有路由，在 https_server.Init() 中调用
func RegisterRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")
	RegisterAuthRoutes(api, d)    // 注册/登录/注销
	RegisterUserRoutes(api, d)    // 用户资料与搜索
	RegisterMessageRoutes(api, d) // 会话列表与聊天记录
	RegisterWebSocketRoutes(r, d) // 实时通道

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
}
