package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由，整个分组按 IP 限流
func RegisterAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	if d.AuthLimiter != nil {
		authGroup.Use(d.AuthLimiter)
	}
	{
		authGroup.POST("/register", d.Handlers.Auth.Register)
		authGroup.POST("/login", d.Handlers.Auth.Login)
		authGroup.POST("/logout", d.Handlers.Auth.Logout)
		authGroup.GET("/me", d.Auth, d.Handlers.Auth.Me)
	}
}
