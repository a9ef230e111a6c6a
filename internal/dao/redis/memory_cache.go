package redis

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	value    string
	expireAt time.Time // 零值表示不过期
}

// MemoryCache 进程内缓存，Redis 关闭（redisConfig.enabled = false）时使用
// 异步任务直接在调用方 goroutine 中执行
type MemoryCache struct {
	mu      sync.Mutex
	strings map[string]memoryEntry
	sets    map[string]map[string]struct{}
	now     func() time.Time
}

// NewMemoryCache 创建进程内缓存
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		strings: make(map[string]memoryEntry),
		sets:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expireAt = m.now().Add(ttl)
	}
	m.strings[key] = entry
	return nil
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.strings[key]
	if !ok {
		return "", nil
	}
	if !entry.expireAt.IsZero() && !m.now().Before(entry.expireAt) {
		delete(m.strings, key)
		return "", nil
	}
	return entry.value, nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strings, key)
	delete(m.sets, key)
	return nil
}

func (m *MemoryCache) AddToSet(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}
	return nil
}

func (m *MemoryCache) RemoveFromSet(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := m.sets[key]
	for _, member := range members {
		delete(set, member)
	}
	return nil
}

func (m *MemoryCache) IsSetMember(_ context.Context, key string, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sets[key][member]
	return ok, nil
}

// GetSetMembers 返回排序后的成员，方便比较
func (m *MemoryCache) GetSetMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryCache) SubmitTask(_ string, action func()) {
	if action != nil {
		action()
	}
}

func (m *MemoryCache) Close() error { return nil }
