package request

// RegisterRequest 用户注册请求，邮箱和手机号至少填一个
// 使用位置:
//   - internal/handler/auth_handler.go: Register
//   - internal/service/user/service.go: Register
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required_without=Phone,omitempty,email,max=100"`
	Phone    string `json:"phone" binding:"required_without=Email,omitempty,max=20"`
	Password string `json:"password" binding:"required"`
}
