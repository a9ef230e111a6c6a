package message

import (
	"context"
	"sync"
	"testing"

	"pulse_chat_server/internal/dao/mysql/mysqltest"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/infrastructure/mq"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event mq.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc       *messageService
	repos     *repository.Repositories
	cache     *myredis.MemoryCache
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := repository.NewRepositories(mysqltest.OpenDB(t))
	cache := myredis.NewMemoryCache()
	pub := &recordingPublisher{}
	ctx := context.Background()
	for _, u := range []struct{ id, name string }{{"a", "alice"}, {"b", "bob"}, {"c", "carol"}} {
		require.NoError(t, repos.User.Create(ctx, &model.UserInfo{Uuid: u.id, Username: u.name, AvatarUrl: constants.DEFAULT_AVATAR_URL + u.name}))
	}
	return &fixture{svc: NewMessageService(repos, cache, pub), repos: repos, cache: cache, publisher: pub}
}

func TestCreateMessageDefaultsToText(t *testing.T) {
	f := newFixture(t)
	msg, err := f.svc.CreateMessage(context.Background(), "a", "b", "hello", "")
	require.NoError(t, err)
	require.NotZero(t, msg.Id)
	require.Equal(t, model.MessageTypeText, msg.Type)
	require.Nil(t, msg.ReadAt)
	require.Equal(t, []string{mq.EventMessageCreated}, f.publisher.types())
}

func TestCreateMessageRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateMessage(context.Background(), "a", "b", "x", "sticker")
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestConversationSymmetry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i, from := range []string{"a", "b", "a", "b"} {
		to := map[string]string{"a": "b", "b": "a"}[from]
		_, err := f.svc.CreateMessage(ctx, from, to, string(rune('0'+i)), model.MessageTypeText)
		require.NoError(t, err)
	}

	ab, err := f.svc.GetConversation(ctx, "a", "b")
	require.NoError(t, err)
	ba, err := f.svc.GetConversation(ctx, "b", "a")
	require.NoError(t, err)
	require.Equal(t, ab, ba)
	require.Len(t, ab, 4)
	for i := 1; i < len(ab); i++ {
		require.False(t, ab[i].CreatedAt.Before(ab[i-1].CreatedAt))
	}
}

func TestMarkReadIdempotentAndDirectional(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateMessage(ctx, "a", "b", "1", "")
	require.NoError(t, err)
	_, err = f.svc.CreateMessage(ctx, "b", "a", "2", "")
	require.NoError(t, err)

	n, err := f.svc.MarkRead(ctx, "a", "b")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	conv, err := f.svc.GetConversation(ctx, "a", "b")
	require.NoError(t, err)
	firstRead := *conv[0].ReadAt
	require.Nil(t, conv[1].ReadAt)

	n, err = f.svc.MarkRead(ctx, "a", "b")
	require.NoError(t, err)
	require.Zero(t, n)

	conv, err = f.svc.GetConversation(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, conv[0].ReadAt.Equal(firstRead))

	// 第二次没有更新，不再发布事件
	require.Equal(t, []string{mq.EventMessageCreated, mq.EventMessageCreated, mq.EventMessageRead}, f.publisher.types())
}

func TestRecentConversations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateMessage(ctx, "b", "a", "hi from bob", "")
	require.NoError(t, err)
	_, err = f.svc.CreateMessage(ctx, "c", "a", "hi from carol", "")
	require.NoError(t, err)
	_, err = f.svc.CreateMessage(ctx, "b", "a", "again from bob", "")
	require.NoError(t, err)
	_, err = f.svc.CreateMessage(ctx, "a", "ghost", "to nobody", "")
	require.NoError(t, err)
	require.NoError(t, f.cache.AddToSet(ctx, constants.ONLINE_USERS_KEY, "c"))

	items, err := f.svc.RecentConversations(ctx, "a")
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "b", items[0].Id)
	require.Equal(t, "bob", items[0].Username)
	require.Equal(t, "again from bob", items[0].LastMessage)
	require.Equal(t, "b", items[0].LastMessageSender)
	require.EqualValues(t, 2, items[0].UnreadCount)
	require.False(t, items[0].Online)

	require.Equal(t, "c", items[1].Id)
	require.EqualValues(t, 1, items[1].UnreadCount)
	require.True(t, items[1].Online)

	_, err = f.svc.MarkRead(ctx, "b", "a")
	require.NoError(t, err)
	items, err = f.svc.RecentConversations(ctx, "a")
	require.NoError(t, err)
	require.Zero(t, items[0].UnreadCount)

	// 对方视角：未读数只统计发给自己的
	items, err = f.svc.RecentConversations(ctx, "b")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Zero(t, items[0].UnreadCount)
}

func TestRecentConversationsEmpty(t *testing.T) {
	f := newFixture(t)
	items, err := f.svc.RecentConversations(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}
