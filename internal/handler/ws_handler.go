package handler

import (
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler 实时通道入口
type WsHandler struct {
	gateway    *chat.Gateway
	resolver   middleware.SessionResolver
	cookieName string
}

// NewWsHandler 创建实时通道处理器
func NewWsHandler(gateway *chat.Gateway, resolver middleware.SessionResolver, cookieName string) *WsHandler {
	return &WsHandler{gateway: gateway, resolver: resolver, cookieName: cookieName}
}

// Connect 升级为 WebSocket；会话无效时连接仍会建立，但不会被登记
// GET /ws
func (h *WsHandler) Connect(c *gin.Context) {
	user := middleware.ResolveUser(c, h.resolver, h.cookieName)
	h.gateway.Serve(c, user)
}
