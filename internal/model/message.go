// Package model 定义数据库实体模型
// 本文件定义消息模型，用于存储一对一聊天消息
package model

import "time"

// 消息类型
const (
	MessageTypeText      = "text"
	MessageTypeImage     = "image"
	MessageTypeVideo     = "video"
	MessageTypeCallStart = "call_start"
	MessageTypeCallEnd   = "call_end"
)

// Message 消息模型，对应 message 表
// 写入后除 ReadAt 外不可变
type Message struct {
	// Id 雪花算法生成，按时间递增，用作同一时刻的排序依据
	Id int64 `gorm:"column:id;primaryKey;autoIncrement:false;comment:消息雪花ID"`

	SenderId   string `gorm:"column:sender_id;index:idx_message_pair,priority:1;type:varchar(36);not null;comment:发送者id"`
	ReceiverId string `gorm:"column:receiver_id;index:idx_message_pair,priority:2;index;type:varchar(36);not null;comment:接收者id"`
	Content    string `gorm:"column:content;type:TEXT;not null;comment:消息内容"`
	Type       string `gorm:"column:type;type:varchar(20);not null;default:text;comment:消息类型"`

	CreatedAt time.Time `gorm:"column:created_at;index;comment:发送时间"`

	// ReadAt 为空表示接收方未读
	ReadAt *time.Time `gorm:"column:read_at;comment:已读时间"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}

// ValidMessageType 判断消息类型是否合法
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeVideo, MessageTypeCallStart, MessageTypeCallEnd:
		return true
	}
	return false
}
