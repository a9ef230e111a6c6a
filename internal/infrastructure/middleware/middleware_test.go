package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pulse_chat_server/internal/model"
	"pulse_chat_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type stubResolver map[string]*model.UserInfo

func (s stubResolver) ResolveSession(_ context.Context, token string) (*model.UserInfo, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, errors.New("no session")
}

func newSessionEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	resolver := stubResolver{"good": {Uuid: "u1", Username: "alice"}}
	r.GET("/private", SessionAuth(resolver, "session_id"), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.CTX_USER_ID)+"/"+CurrentUser(c).Username)
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	r := newSessionEngine()
	cases := []struct {
		name   string
		cookie string
		status int
		body   string
	}{
		{name: "valid", cookie: "good", status: http.StatusOK, body: "u1/alice"},
		{name: "unknown", cookie: "bad", status: http.StatusUnauthorized},
		{name: "missing", status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_id", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				require.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l := NewIPRateLimiter(60, 2)
	defer l.Close()
	r := gin.New()
	r.POST("/api/auth/login", l.Handler(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	require.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	require.Equal(t, http.StatusNoContent, hit("10.0.0.2"))
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	l := NewIPRateLimiter(60, 1)
	defer l.Close()
	now := time.Now()
	l.now = func() time.Time { return now }
	require.True(t, l.allow("10.0.0.1"))
	require.False(t, l.allow("10.0.0.1"))

	now = now.Add(visitorIdleTimeout + time.Second)
	l.evictIdle()
	l.mu.Lock()
	require.Empty(t, l.visitors)
	l.mu.Unlock()
}
