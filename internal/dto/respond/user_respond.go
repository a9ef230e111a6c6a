package respond

import "time"

// UserRespond 当前登录用户信息，注册/登录/me 接口返回
type UserRespond struct {
	Id        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	AvatarUrl string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthRespond 注册/登录响应
type AuthRespond struct {
	User UserRespond `json:"user"`
}

// UserProfileRespond 其他用户的公开资料
type UserProfileRespond struct {
	Id        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarUrl string  `json:"avatar_url"`
	Online    bool    `json:"online"`
}

// SearchUserRespond 搜索结果条目
type SearchUserRespond struct {
	Id        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	AvatarUrl string  `json:"avatar_url"`
}
