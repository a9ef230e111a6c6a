package handler

import (
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 会话列表与聊天记录
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// Chats 最近会话列表
// GET /api/chats
func (h *MessageHandler) Chats(c *gin.Context) {
	data, err := h.messageSvc.RecentConversations(c.Request.Context(), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Conversation 与某个用户的全部聊天记录
// GET /api/messages/:userId
func (h *MessageHandler) Conversation(c *gin.Context) {
	data, err := h.messageSvc.GetConversation(c.Request.Context(), currentUserId(c), c.Param("userId"))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MarkRead 把对方发给我的消息标记为已读
// POST /api/messages/:userId/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	n, err := h.messageSvc.MarkRead(c.Request.Context(), c.Param("userId"), currentUserId(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, respond.MarkReadRespond{Updated: n})
}
