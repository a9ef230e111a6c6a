package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 实时通道，认证在连接建立时由 Cookie 完成
func RegisterWebSocketRoutes(r *gin.Engine, d Deps) {
	r.GET("/ws", d.Handlers.Ws.Connect)
}
