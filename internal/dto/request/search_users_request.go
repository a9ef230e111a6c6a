package request

// SearchUsersRequest 用户搜索
type SearchUsersRequest struct {
	Q string `form:"q"`
}
