package request

// LoginRequest 密码登录请求，Identifier 含 @ 时按邮箱查找，否则按手机号
// 使用位置:
//   - internal/handler/auth_handler.go: Login
//   - internal/service/user/service.go: Login
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
