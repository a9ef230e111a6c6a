package session

import (
	"context"
	"testing"
	"time"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/mysqltest"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"
	"pulse_chat_server/pkg/util/jwt"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*sessionService, *repository.Repositories, *myredis.MemoryCache) {
	t.Helper()
	jwt.Init("session-test")
	repos := repository.NewRepositories(mysqltest.OpenDB(t))
	cache := myredis.NewMemoryCache()
	svc := NewSessionService(repos, cache, config.SessionConfig{ExpiryHours: 168, CacheTTLSeconds: 300})
	require.NoError(t, repos.User.Create(context.Background(), &model.UserInfo{Uuid: "u1", Username: "alice", RawPassword: "pw"}))
	return svc, repos, cache
}

func TestCreateAndResolve(t *testing.T) {
	ctx := context.Background()
	svc, _, cache := newTestService(t)

	token, expiresAt, err := svc.CreateSession(ctx, "u1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(168*time.Hour), expiresAt, time.Minute)

	user, err := svc.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)

	claims, err := jwt.ParseSessionToken(token)
	require.NoError(t, err)
	cached, err := cache.Get(ctx, constants.SESSION_CACHE_PREFIX+claims.SessionID)
	require.NoError(t, err)
	require.Equal(t, "u1", cached)
}

func TestResolveRejectsGarbageAndEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, token := range []string{"", "garbage"} {
		_, err := svc.ResolveSession(context.Background(), token)
		require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
	}
}

func TestExpiredSessionIsAbsent(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newTestService(t)

	// token 仍在有效期内，但会话记录已过期
	sessionId := "expired-session"
	require.NoError(t, repos.Session.Create(ctx, &model.Session{Uuid: sessionId, UserId: "u1", ExpiresAt: time.Now().Add(-time.Minute)}))
	token, err := jwt.GenerateSessionToken(sessionId, "u1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.ResolveSession(ctx, token)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestSessionOfDeletedUserIsAbsent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	token, _, err := svc.CreateSession(ctx, "ghost")
	require.NoError(t, err)

	_, err = svc.ResolveSession(ctx, token)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestDeleteSessionInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	token, _, err := svc.CreateSession(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.ResolveSession(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, token))
	_, err = svc.ResolveSession(ctx, token)
	require.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	require.NoError(t, svc.DeleteSession(ctx, "garbage"))
}

func TestPurgeExpired(t *testing.T) {
	ctx := context.Background()
	svc, repos, _ := newTestService(t)
	require.NoError(t, repos.Session.Create(ctx, &model.Session{Uuid: "old", UserId: "u1", ExpiresAt: time.Now().Add(-time.Hour)}))
	_, _, err := svc.CreateSession(ctx, "u1")
	require.NoError(t, err)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}
