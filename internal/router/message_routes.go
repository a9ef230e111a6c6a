package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册会话与消息路由，均需登录
func RegisterMessageRoutes(api *gin.RouterGroup, d Deps) {
	api.GET("/chats", d.Auth, d.Handlers.Message.Chats)

	msgGroup := api.Group("/messages", d.Auth)
	{
		msgGroup.GET("/:userId", d.Handlers.Message.Conversation)
		msgGroup.POST("/:userId/read", d.Handlers.Message.MarkRead)
	}
}
