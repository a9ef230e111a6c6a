package user

import (
	"context"
	"testing"

	"pulse_chat_server/internal/dao/mysql/mysqltest"
	"pulse_chat_server/internal/dao/mysql/repository"
	myredis "pulse_chat_server/internal/dao/redis"
	"pulse_chat_server/internal/dto/request"
	"pulse_chat_server/pkg/constants"
	"pulse_chat_server/pkg/errorx"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*userInfoService, *myredis.MemoryCache) {
	t.Helper()
	cache := myredis.NewMemoryCache()
	return NewUserService(repository.NewRepositories(mysqltest.OpenDB(t)), cache), cache
}

func register(t *testing.T, svc *userInfoService, username, email, phone string) string {
	t.Helper()
	user, err := svc.Register(context.Background(), request.RegisterRequest{
		Username: username, Email: email, Phone: phone, Password: "pw-" + username,
	})
	require.NoError(t, err)
	return user.Uuid
}

func TestRegisterAndLoginByEmailOrPhone(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	id := register(t, svc, "alice", "alice@example.com", "")
	bobId := register(t, svc, "bob", "", "5550001")

	user, err := svc.Login(ctx, request.LoginRequest{Identifier: "alice@example.com", Password: "pw-alice"})
	require.NoError(t, err)
	require.Equal(t, id, user.Uuid)
	require.Equal(t, constants.DEFAULT_AVATAR_URL+"alice", user.AvatarUrl)
	require.Nil(t, user.Phone)

	user, err = svc.Login(ctx, request.LoginRequest{Identifier: "5550001", Password: "pw-bob"})
	require.NoError(t, err)
	require.Equal(t, bobId, user.Uuid)
	require.Nil(t, user.Email)

	rsp := ToUserRespond(user)
	require.Equal(t, "bob", rsp.Username)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com", "")

	_, errWrongPw := svc.Login(ctx, request.LoginRequest{Identifier: "alice@example.com", Password: "nope"})
	_, errNoUser := svc.Login(ctx, request.LoginRequest{Identifier: "bob@example.com", Password: "nope"})
	require.ErrorIs(t, errWrongPw, errorx.ErrInvalidCredentials)
	require.ErrorIs(t, errNoUser, errorx.ErrInvalidCredentials)
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	register(t, svc, "alice", "alice@example.com", "")

	_, err := svc.Register(ctx, request.RegisterRequest{Username: "nocontact", Password: "pw"})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	_, err = svc.Register(ctx, request.RegisterRequest{
		Username: "carol", Email: "carol@example.com", Phone: "5559999", Password: "pw",
	})
	require.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	_, err = svc.Login(ctx, request.LoginRequest{Identifier: "carol@example.com", Password: "pw"})
	require.ErrorIs(t, err, errorx.ErrInvalidCredentials)

	_, err = svc.Register(ctx, request.RegisterRequest{Username: "alice", Phone: "1", Password: "pw"})
	require.ErrorIs(t, err, ErrUserExists)

	_, err = svc.Register(ctx, request.RegisterRequest{Username: "alice2", Email: "alice@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrUserExists)
}

func TestGetUserInfoShowsPresence(t *testing.T) {
	ctx := context.Background()
	svc, cache := newTestService(t)
	id := register(t, svc, "alice", "alice@example.com", "")

	profile, err := svc.GetUserInfo(ctx, id)
	require.NoError(t, err)
	require.False(t, profile.Online)

	require.NoError(t, cache.AddToSet(ctx, constants.ONLINE_USERS_KEY, id))
	profile, err = svc.GetUserInfo(ctx, id)
	require.NoError(t, err)
	require.True(t, profile.Online)

	_, err = svc.GetUserInfo(ctx, "missing")
	require.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestSearchUsers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	me := register(t, svc, "alice", "alice@example.com", "")
	register(t, svc, "alicia", "", "5551234")
	register(t, svc, "bob", "bob@example.com", "")

	rsp, err := svc.SearchUsers(ctx, me, "ali")
	require.NoError(t, err)
	require.Len(t, rsp, 1)
	require.Equal(t, "alicia", rsp[0].Username)

	rsp, err = svc.SearchUsers(ctx, me, "  ")
	require.NoError(t, err)
	require.NotNil(t, rsp)
	require.Empty(t, rsp)
}

func TestUpdateUserInfoPartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	me := register(t, svc, "alice", "alice@example.com", "")
	register(t, svc, "bob", "bob@example.com", "")

	rsp, err := svc.UpdateUserInfo(ctx, me, request.UpdateUserInfoRequest{Phone: "5550001"})
	require.NoError(t, err)
	require.Equal(t, "alice", rsp.Username)
	require.Equal(t, "alice@example.com", *rsp.Email)
	require.Equal(t, "5550001", *rsp.Phone)

	_, err = svc.UpdateUserInfo(ctx, me, request.UpdateUserInfoRequest{Username: "bob"})
	require.ErrorIs(t, err, ErrUserExists)
}
