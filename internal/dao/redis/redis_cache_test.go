package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pulse_chat_server/pkg/errorx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 2, 4)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// 两种实现行为保持一致
func cacheImplementations(t *testing.T) map[string]CacheService {
	rc, _ := newTestRedisCache(t)
	return map[string]CacheService{
		"redis":  rc,
		"memory": NewMemoryCache(),
	}
}

func TestCacheStringOps(t *testing.T) {
	ctx := context.Background()
	for name, cache := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			v, err := cache.Get(ctx, "missing")
			require.NoError(t, err)
			require.Empty(t, v)

			require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))
			v, err = cache.Get(ctx, "k")
			require.NoError(t, err)
			require.Equal(t, "v", v)

			require.NoError(t, cache.Delete(ctx, "k"))
			require.NoError(t, cache.Delete(ctx, "k"))
			v, err = cache.Get(ctx, "k")
			require.NoError(t, err)
			require.Empty(t, v)
		})
	}
}

func TestCacheSetOps(t *testing.T) {
	ctx := context.Background()
	for name, cache := range cacheImplementations(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, cache.AddToSet(ctx, "online", "u1", "u2"))
			require.NoError(t, cache.AddToSet(ctx, "online", "u1"))

			ok, err := cache.IsSetMember(ctx, "online", "u1")
			require.NoError(t, err)
			require.True(t, ok)

			require.NoError(t, cache.RemoveFromSet(ctx, "online", "u1"))
			ok, err = cache.IsSetMember(ctx, "online", "u1")
			require.NoError(t, err)
			require.False(t, ok)

			members, err := cache.GetSetMembers(ctx, "online")
			require.NoError(t, err)
			require.ElementsMatch(t, []string{"u2"}, members)
		})
	}
}

func TestRedisCacheTTL(t *testing.T) {
	ctx := context.Background()
	rc, mr := newTestRedisCache(t)
	require.NoError(t, rc.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	v, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	now := time.Now()
	mc.now = func() time.Time { return now }
	require.NoError(t, mc.Set(ctx, "k", "v", time.Second))

	now = now.Add(2 * time.Second)
	v, err := mc.Get(ctx, "k")
	require.NoError(t, err)
	require.Empty(t, v)
}

func TestSubmitTaskRunsAndSurvivesPanic(t *testing.T) {
	rc, _ := newTestRedisCache(t)
	var ran atomic.Int32
	rc.SubmitTask("k", func() { panic("boom") })
	for i := 0; i < 10; i++ {
		rc.SubmitTask("k", func() { ran.Add(1) })
	}
	require.NoError(t, rc.Close())
	require.EqualValues(t, 10, ran.Load())

	// 关闭后提交的任务同步执行
	rc.SubmitTask("k", func() { ran.Add(1) })
	require.EqualValues(t, 11, ran.Load())
}

func TestSubmitTaskKeepsOrderPerKey(t *testing.T) {
	rc, _ := newTestRedisCache(t)
	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 50; i++ {
		i := i
		rc.SubmitTask("user:1", func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	require.NoError(t, rc.Close())
	require.Len(t, got, 50)
	for i := range got {
		require.Equal(t, i, got[i])
	}
}

func TestCacheErrorsCarryCode(t *testing.T) {
	rc, mr := newTestRedisCache(t)
	mr.Close()
	_, err := rc.Get(context.Background(), "k")
	require.Error(t, err)
	require.Equal(t, errorx.CodeCacheError, errorx.GetCode(err))
}
