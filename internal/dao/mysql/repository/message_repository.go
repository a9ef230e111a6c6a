package repository

import (
	"context"
	"time"

	"pulse_chat_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 写入消息
func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindConversation 按发送者和接收者查找消息（双向）
func (r *messageRepository) FindConversation(ctx context.Context, userOneId, userTwoId string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userOneId, userTwoId, userTwoId, userOneId).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询消息 user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, nil
}

// MarkRead 批量标记已读，已读过的消息保持原 read_at
func (r *messageRepository) MarkRead(ctx context.Context, senderId, receiverId string, readAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read_at IS NULL", senderId, receiverId).
		Update("read_at", readAt)
	if result.Error != nil {
		return 0, wrapDBErrorf(result.Error, "标记已读 sender=%s receiver=%s", senderId, receiverId)
	}
	return result.RowsAffected, nil
}

// counterpartMax 某个对话方的最大消息 ID
type counterpartMax struct {
	Counterpart string
	MaxId       int64
}

// FindLatestPerCounterpart 每个对话方取最大 ID 的消息
// 消息 ID 与 created_at 同源（见 snowflake.Generate），最大 ID 即最新消息
func (r *messageRepository) FindLatestPerCounterpart(ctx context.Context, userId string) ([]model.Message, error) {
	db := r.db.WithContext(ctx)

	var sent, received []counterpartMax
	if err := db.Model(&model.Message{}).
		Select("receiver_id AS counterpart, MAX(id) AS max_id").
		Where("sender_id = ?", userId).
		Group("receiver_id").
		Scan(&sent).Error; err != nil {
		return nil, wrapDBErrorf(err, "统计已发送会话 user=%s", userId)
	}
	if err := db.Model(&model.Message{}).
		Select("sender_id AS counterpart, MAX(id) AS max_id").
		Where("receiver_id = ?", userId).
		Group("sender_id").
		Scan(&received).Error; err != nil {
		return nil, wrapDBErrorf(err, "统计已接收会话 user=%s", userId)
	}

	latest := make(map[string]int64, len(sent)+len(received))
	for _, row := range append(sent, received...) {
		if row.MaxId > latest[row.Counterpart] {
			latest[row.Counterpart] = row.MaxId
		}
	}
	if len(latest) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(latest))
	for _, id := range latest {
		ids = append(ids, id)
	}

	var messages []model.Message
	if err := db.Where("id IN ?", ids).Order("created_at DESC, id DESC").Find(&messages).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询最新消息 user=%s", userId)
	}
	return messages, nil
}

type senderUnread struct {
	SenderId string
	Unread   int64
}

// CountUnreadBySender 统计未读数
func (r *messageRepository) CountUnreadBySender(ctx context.Context, receiverId string) (map[string]int64, error) {
	var rows []senderUnread
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("sender_id, COUNT(*) AS unread").
		Where("receiver_id = ? AND read_at IS NULL", receiverId).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "统计未读 receiver=%s", receiverId)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderId] = row.Unread
	}
	return counts, nil
}
