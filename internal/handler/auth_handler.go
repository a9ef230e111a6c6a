// Package handler 提供 HTTP 请求处理器
// 本文件处理注册、登录、注销与当前用户查询
package handler

import (
	"net/http"
	"time"

	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/infrastructure/middleware"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/internal/service"
	"pulse_chat_server/internal/service/user"
	"pulse_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CookieOptions 会话 Cookie 设置
type CookieOptions struct {
	Name   string
	Secure bool // release 模式下开启
}

// AuthHandler 认证请求处理器
type AuthHandler struct {
	userSvc    service.UserService
	sessionSvc service.SessionService
	cookie     CookieOptions
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(userSvc service.UserService, sessionSvc service.SessionService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, sessionSvc: sessionSvc, cookie: cookie}
}

// Register 注册并直接登录
// POST /api/auth/register
// 请求体: request.RegisterRequest
// 响应: respond.AuthRespond
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	u, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.startSession(c, u)
}

// Login 密码登录
// POST /api/auth/login
// 请求体: request.LoginRequest
// 响应: respond.AuthRespond
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	u, err := h.userSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.startSession(c, u)
}

// Logout 注销当前会话并清除 Cookie，没有会话也返回成功
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookie.Name); err == nil && token != "" {
		if err := h.sessionSvc.DeleteSession(c.Request.Context(), token); err != nil {
			zap.L().Warn("delete session failed", zap.Error(err))
		}
	}
	h.setCookie(c, "", -1)
	HandleSuccess(c, gin.H{"success": true})
}

// Me 当前登录用户
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		HandleError(c, errorx.ErrUnauthorized)
		return
	}
	HandleSuccess(c, respond.AuthRespond{User: user.ToUserRespond(u)})
}

func (h *AuthHandler) startSession(c *gin.Context, u *model.UserInfo) {
	token, expiresAt, err := h.sessionSvc.CreateSession(c.Request.Context(), u.Uuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.setCookie(c, token, int(time.Until(expiresAt).Seconds()))
	HandleSuccess(c, respond.AuthRespond{User: user.ToUserRespond(u)})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
