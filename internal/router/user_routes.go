package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户相关路由，均需登录
// /search 与 /me 必须先于 /:id 注册
func RegisterUserRoutes(api *gin.RouterGroup, d Deps) {
	userGroup := api.Group("/users", d.Auth)
	{
		userGroup.GET("/search", d.Handlers.User.Search)
		userGroup.PUT("/me", d.Handlers.User.UpdateMe)
		userGroup.GET("/:id", d.Handlers.User.GetUserInfo)
	}
}
