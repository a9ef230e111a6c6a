package constants

const (
	CHANNEL_SIZE         = 100                 // 每个连接的发送缓冲大小
	SESSION_EXPIRY_HOURS = 168                 // 登录会话有效期（小时），168小时 = 7天
	SESSION_COOKIE_NAME  = "session_id"        // 会话 Cookie 名称
	ONLINE_USERS_KEY     = "online_users"      // Redis 在线用户集合
	SESSION_CACHE_PREFIX = "session_user:"     // Redis 会话缓存前缀
	SEARCH_LIMIT         = 20                  // 用户搜索结果上限
	DEFAULT_AVATAR_URL   = "https://api.dicebear.com/7.x/initials/svg?seed="
	CTX_USER_ID          = "user_id"           // gin.Context 中的当前用户 ID
	CTX_USER             = "user"              // gin.Context 中的当前用户 *model.UserInfo
)
