package request

// UpdateUserInfoRequest 更新当前用户资料，空字段不修改
// 使用位置:
//   - internal/handler/user_handler.go: UpdateMe
//   - internal/service/user/service.go: UpdateUserInfo
type UpdateUserInfoRequest struct {
	Username  string `json:"username" binding:"omitempty,max=50"`
	Email     string `json:"email" binding:"omitempty,email,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	AvatarUrl string `json:"avatar_url" binding:"omitempty,max=255"`
}
