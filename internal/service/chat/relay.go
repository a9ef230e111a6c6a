package chat

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/respond"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
)

// Outcome 一帧上行事件的处理结果
// 所有丢弃都有对应的结果值，便于计数和测试
type Outcome int

const (
	// OutcomeIgnoredUnauthenticated 未认证连接的帧，直接忽略
	OutcomeIgnoredUnauthenticated Outcome = iota
	// OutcomeMalformed 无法解析或类型未知
	OutcomeMalformed
	// OutcomeDelivered 已投递给接收方（聊天消息同时已落库并回执）
	OutcomeDelivered
	// OutcomeStoredOnly 聊天消息已落库并回执，接收方不在线
	OutcomeStoredOnly
	// OutcomeRecipientUnavailable 信令的接收方不在线，丢弃
	OutcomeRecipientUnavailable
	// OutcomeStoreFailed 落库失败，不回执
	OutcomeStoreFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnoredUnauthenticated:
		return "ignored_unauthenticated"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeStoredOnly:
		return "stored_only"
	case OutcomeRecipientUnavailable:
		return "recipient_unavailable"
	case OutcomeStoreFailed:
		return "store_failed"
	default:
		return "unknown"
	}
}

// MessageStore 中继需要的消息存储能力
type MessageStore interface {
	CreateMessage(ctx context.Context, senderId, receiverId, content, kind string) (*respond.MessageRespond, error)
}

// RelayOptions 可选依赖
type RelayOptions struct {
	// Presence 在线状态镜像，nil 时不维护
	Presence myredis.AsyncCacheService
	Metrics  *Metrics
	Logger   *zap.Logger
}

// Relay 中继核心：分类上行事件、落库、转发
// 同一连接的帧由该连接的读协程依次调用 HandleFrame，不同连接之间互不等待
type Relay struct {
	registry *ConnRegistry
	store    MessageStore
	presence myredis.AsyncCacheService
	metrics  *Metrics
	log      *zap.Logger
}

// NewRelay 创建中继
func NewRelay(registry *ConnRegistry, store MessageStore, opts RelayOptions) *Relay {
	lg := opts.Logger
	if lg == nil {
		lg = zap.L()
	}
	return &Relay{
		registry: registry,
		store:    store,
		presence: opts.Presence,
		metrics:  opts.Metrics,
		log:      lg,
	}
}

// Registry 返回连接登记表
func (r *Relay) Registry() *ConnRegistry {
	return r.registry
}

// Attach 连接建立后调用；未认证连接不登记
func (r *Relay) Attach(conn Conn) {
	userId := conn.UserId()
	if userId == "" {
		return
	}
	prev := r.registry.Register(userId, conn)
	r.metrics.connRegistered(prev != nil)
	if prev != nil && prev != conn {
		r.log.Info("connection superseded", zap.String("user_id", userId))
	}
	r.syncPresence(userId)
}

// Detach 连接关闭后调用，只移除仍属于该连接的登记
func (r *Relay) Detach(conn Conn) {
	userId := conn.UserId()
	if userId == "" {
		return
	}
	if r.registry.Unregister(userId, conn) {
		r.metrics.connRemoved()
		r.syncPresence(userId)
	}
}

// syncPresence 在线集合跟随登记表，任务执行时读取最新登记状态
func (r *Relay) syncPresence(userId string) {
	if r.presence == nil {
		return
	}
	r.presence.SubmitTask(constants.ONLINE_USERS_KEY+":"+userId, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		var err error
		if _, online := r.registry.Lookup(userId); online {
			err = r.presence.AddToSet(ctx, constants.ONLINE_USERS_KEY, userId)
		} else {
			err = r.presence.RemoveFromSet(ctx, constants.ONLINE_USERS_KEY, userId)
		}
		if err != nil {
			r.log.Warn("sync presence failed", zap.String("user_id", userId), zap.Error(err))
		}
	})
}

// HandleFrame 处理一帧上行数据，错误只影响这一帧
func (r *Relay) HandleFrame(ctx context.Context, conn Conn, raw []byte) Outcome {
	outcome := r.dispatch(ctx, conn, raw)
	r.metrics.recordOutcome(outcome)
	return outcome
}

func (r *Relay) dispatch(ctx context.Context, conn Conn, raw []byte) Outcome {
	senderId := conn.UserId()
	if senderId == "" {
		r.log.Debug("frame from unauthenticated connection ignored")
		return OutcomeIgnoredUnauthenticated
	}

	switch ev := DecodeEvent(raw).(type) {
	case ChatEvent:
		return r.handleChat(ctx, conn, senderId, ev)
	case CallSignalEvent:
		return r.forward(senderId, ev.ReceiverId, TypeCallSignal, CallSignalFrame{
			Type:       TypeCallSignal,
			SenderId:   senderId,
			SignalData: ev.SignalData,
		})
	case CallEndEvent:
		return r.forward(senderId, ev.ReceiverId, TypeCallEnd, CallEndFrame{
			Type:     TypeCallEnd,
			SenderId: senderId,
		})
	case UnrecognizedEvent:
		r.log.Debug("malformed frame dropped",
			zap.String("user_id", senderId),
			zap.String("type", ev.Type),
			zap.String("reason", ev.Reason),
		)
		return OutcomeMalformed
	default:
		return OutcomeMalformed
	}
}

// handleChat 先落库，成功后回执发送方，再尽力投递给接收方
func (r *Relay) handleChat(ctx context.Context, conn Conn, senderId string, ev ChatEvent) Outcome {
	msg, err := r.store.CreateMessage(ctx, senderId, ev.ReceiverId, ev.Content, model.MessageTypeText)
	if err != nil {
		r.log.Warn("chat message not stored",
			zap.String("user_id", senderId),
			zap.String("receiver_id", ev.ReceiverId),
			zap.Error(err),
		)
		return OutcomeStoreFailed
	}

	ack, err := json.Marshal(MessageFrame{Type: TypeChatAck, Message: *msg})
	if err != nil {
		r.log.Error("encode chat_ack failed", zap.Error(err))
		return OutcomeStoreFailed
	}
	if !conn.Send(ack) {
		r.log.Debug("chat_ack not queued", zap.String("user_id", senderId))
	}

	receiver, ok := r.registry.Lookup(ev.ReceiverId)
	if !ok || !receiver.IsOpen() {
		return OutcomeStoredOnly
	}
	frame, err := json.Marshal(MessageFrame{Type: TypeChatNew, Message: *msg})
	if err != nil {
		r.log.Error("encode chat_new failed", zap.Error(err))
		return OutcomeStoredOnly
	}
	if !receiver.Send(frame) {
		return OutcomeStoredOnly
	}
	return OutcomeDelivered
}

// forward 转发信令，不落库；接收方不在线时静默丢弃
func (r *Relay) forward(senderId, receiverId, kind string, frame interface{}) Outcome {
	receiver, ok := r.registry.Lookup(receiverId)
	if !ok || !receiver.IsOpen() {
		r.log.Debug("signal dropped, receiver unavailable",
			zap.String("user_id", senderId),
			zap.String("receiver_id", receiverId),
			zap.String("type", kind),
		)
		return OutcomeRecipientUnavailable
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		r.log.Warn("encode signal frame failed", zap.String("type", kind), zap.Error(err))
		return OutcomeMalformed
	}
	if !receiver.Send(payload) {
		return OutcomeRecipientUnavailable
	}
	return OutcomeDelivered
}
