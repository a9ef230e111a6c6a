// Package message 实现消息存储：写入、标记已读、对话记录、最近会话列表
package message

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/infrastructure/mq"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/snowflake"
)

// messageService 消息业务逻辑实现
type messageService struct {
	repos     *repository.Repositories
	cache     myredis.CacheService
	publisher mq.EventPublisher
	now       func() time.Time
}

// NewMessageService 构造函数
func NewMessageService(repos *repository.Repositories, cache myredis.CacheService, publisher mq.EventPublisher) *messageService {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	return &messageService{
		repos:     repos,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// ToMessageRespond 转换为对外表示
func ToMessageRespond(m *model.Message) respond.MessageRespond {
	return respond.MessageRespond{
		Id:         m.Id,
		SenderId:   m.SenderId,
		ReceiverId: m.ReceiverId,
		Content:    m.Content,
		Type:       m.Type,
		CreatedAt:  m.CreatedAt,
		ReadAt:     m.ReadAt,
	}
}

// CreateMessage 写入一条消息，kind 为空时按文本处理
// 返回的消息已持久化，read_at 为空
func (m *messageService) CreateMessage(ctx context.Context, senderId, receiverId, content, kind string) (*respond.MessageRespond, error) {
	if senderId == "" || receiverId == "" {
		return nil, errorx.ErrInvalidParam
	}
	if kind == "" {
		kind = model.MessageTypeText
	}
	if !model.ValidMessageType(kind) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "unknown message type %q", kind)
	}

	id, createdAt := snowflake.Generate()
	msg := &model.Message{
		Id:         id,
		SenderId:   senderId,
		ReceiverId: receiverId,
		Content:    content,
		Type:       kind,
		CreatedAt:  createdAt,
	}
	if err := m.repos.Message.Create(ctx, msg); err != nil {
		zap.L().Error("create message failed",
			zap.String("sender_id", senderId),
			zap.String("receiver_id", receiverId),
			zap.Error(err),
		)
		return nil, err
	}

	rsp := ToMessageRespond(msg)
	m.publish(ctx, mq.Event{
		Type:       mq.EventMessageCreated,
		Key:        mq.ConversationKey(senderId, receiverId),
		OccurredAt: createdAt,
		Payload:    rsp,
	})
	return &rsp, nil
}

// MarkRead 把 senderId 发给 receiverId 的未读消息全部标记为已读
// 重复调用不会改变已读时间
func (m *messageService) MarkRead(ctx context.Context, senderId, receiverId string) (int64, error) {
	readAt := m.now()
	n, err := m.repos.Message.MarkRead(ctx, senderId, receiverId, readAt)
	if err != nil {
		zap.L().Error("mark read failed", zap.String("sender_id", senderId), zap.String("receiver_id", receiverId), zap.Error(err))
		return 0, err
	}
	if n > 0 {
		m.publish(ctx, mq.Event{
			Type:       mq.EventMessageRead,
			Key:        mq.ConversationKey(senderId, receiverId),
			OccurredAt: readAt,
			Payload:    mq.MessageReadPayload{SenderId: senderId, ReceiverId: receiverId, Count: n, ReadAt: readAt},
		})
	}
	return n, nil
}

// GetConversation 两个用户之间的完整聊天记录，按时间升序
func (m *messageService) GetConversation(ctx context.Context, userOneId, userTwoId string) ([]respond.MessageRespond, error) {
	messages, err := m.repos.Message.FindConversation(ctx, userOneId, userTwoId)
	if err != nil {
		return nil, err
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsp = append(rsp, ToMessageRespond(&messages[i]))
	}
	return rsp, nil
}

// RecentConversations 最近会话列表：每个对话方一条，最新的在前
// 已不存在的对话方不出现在列表中
func (m *messageService) RecentConversations(ctx context.Context, userId string) ([]respond.ChatListItemRespond, error) {
	latest, err := m.repos.Message.FindLatestPerCounterpart(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return []respond.ChatListItemRespond{}, nil
	}

	unread, err := m.repos.Message.CountUnreadBySender(ctx, userId)
	if err != nil {
		return nil, err
	}

	counterparts := make([]string, 0, len(latest))
	for _, msg := range latest {
		counterparts = append(counterparts, counterpartOf(&msg, userId))
	}
	users, err := m.repos.User.FindByUuids(ctx, counterparts)
	if err != nil {
		return nil, err
	}
	userMap := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userMap[users[i].Uuid] = &users[i]
	}
	online := m.onlineSet(ctx)

	items := make([]respond.ChatListItemRespond, 0, len(latest))
	for i := range latest {
		msg := &latest[i]
		other := counterpartOf(msg, userId)
		user, ok := userMap[other]
		if !ok {
			continue
		}
		items = append(items, respond.ChatListItemRespond{
			Id:                user.Uuid,
			Username:          user.Username,
			AvatarUrl:         user.AvatarUrl,
			Online:            online[other],
			LastMessage:       msg.Content,
			LastMessageType:   msg.Type,
			LastMessageTime:   msg.CreatedAt,
			LastMessageSender: msg.SenderId,
			UnreadCount:       unread[other],
		})
	}
	return items, nil
}

func counterpartOf(msg *model.Message, userId string) string {
	if msg.SenderId == userId {
		return msg.ReceiverId
	}
	return msg.SenderId
}

// onlineSet 在线状态只用于展示，读取失败按全部离线处理
func (m *messageService) onlineSet(ctx context.Context) map[string]bool {
	members, err := m.cache.GetSetMembers(ctx, constants.ONLINE_USERS_KEY)
	if err != nil {
		zap.L().Warn("load online users failed", zap.Error(err))
		return nil
	}
	set := make(map[string]bool, len(members))
	for _, id := range members {
		set[id] = true
	}
	return set
}

func (m *messageService) publish(ctx context.Context, event mq.Event) {
	if err := m.publisher.Publish(ctx, event); err != nil {
		zap.L().Warn("publish event failed", zap.String("type", event.Type), zap.Error(err))
	}
}
