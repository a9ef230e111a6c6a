package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init("test-secret")
	token, err := GenerateSessionToken("s-1", "u-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	require.Equal(t, "s-1", claims.SessionID)
	require.Equal(t, "u-1", claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	Init("test-secret")
	token, err := GenerateSessionToken("s-1", "u-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ParseSessionToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	Init("secret-a")
	token, err := GenerateSessionToken("s-1", "u-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	Init("secret-b")
	_, err = ParseSessionToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageRejected(t *testing.T) {
	Init("test-secret")
	_, err := ParseSessionToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
