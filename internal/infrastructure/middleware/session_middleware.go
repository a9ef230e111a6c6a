package middleware

import (
	"context"
	"net/http"

	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// SessionResolver 由 Cookie 值解析当前用户，会话无效时返回错误
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*model.UserInfo, error)
}

// SessionAuth 会话认证中间件，每次请求都重新校验会话是否过期
// 通过后把用户 ID 与用户写入上下文
func SessionAuth(resolver SessionResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := ResolveUser(c, resolver, cookieName)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  errorx.ErrUnauthorized.Msg,
			})
			return
		}
		c.Next()
	}
}

// ResolveUser 尝试解析当前用户，失败返回 nil 且不中断请求（/ws 使用）
func ResolveUser(c *gin.Context, resolver SessionResolver, cookieName string) *model.UserInfo {
	token, err := c.Cookie(cookieName)
	if err != nil || token == "" {
		return nil
	}
	user, err := resolver.ResolveSession(c.Request.Context(), token)
	if err != nil || user == nil {
		return nil
	}
	c.Set(constants.CTX_USER_ID, user.Uuid)
	c.Set(constants.CTX_USER, user)
	return user
}

// CurrentUser 取出中间件写入的用户
func CurrentUser(c *gin.Context) *model.UserInfo {
	if v, ok := c.Get(constants.CTX_USER); ok {
		if user, ok := v.(*model.UserInfo); ok {
			return user
		}
	}
	return nil
}
