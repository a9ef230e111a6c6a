package respond

import "time"

// MessageRespond 消息的对外表示，HTTP 接口和实时通道共用
// Id 以字符串输出，避免前端 JS 精度丢失
type MessageRespond struct {
	Id         int64      `json:"id,string"`
	SenderId   string     `json:"sender_id"`
	ReceiverId string     `json:"receiver_id"`
	Content    string     `json:"content"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at"`
}

// ChatListItemRespond 会话列表条目，每个对话方一条
type ChatListItemRespond struct {
	Id                string    `json:"id"`
	Username          string    `json:"username"`
	AvatarUrl         string    `json:"avatar_url"`
	Online            bool      `json:"online"`
	LastMessage       string    `json:"last_message"`
	LastMessageType   string    `json:"last_message_type"`
	LastMessageTime   time.Time `json:"last_message_time"`
	LastMessageSender string    `json:"last_message_sender"`
	UnreadCount       int64     `json:"unread_count"`
}

// MarkReadRespond 标记已读结果
type MarkReadRespond struct {
	Updated int64 `json:"updated"`
}
