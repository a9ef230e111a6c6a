// Package chat 实现实时通道的中继核心
// registry.go
// 核心职责：在线连接登记表，每个用户最多一条连接
package chat

import "sync"

// Conn 中继核心看到的一条实时连接
// UserId 为空表示连接未通过认证
type Conn interface {
	UserId() string
	// Send 投递一帧，不阻塞；连接已关闭或发送队列已满时返回 false
	Send(frame []byte) bool
	IsOpen() bool
}

// ConnRegistry 用户 ID -> 当前连接
// 后注册的连接覆盖先前的登记，旧连接不会被主动关闭
type ConnRegistry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewConnRegistry 创建空登记表
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{conns: make(map[string]Conn)}
}

// Register 登记连接，返回被覆盖的旧连接（没有则为 nil）
func (r *ConnRegistry) Register(userId string, conn Conn) Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.conns[userId]
	r.conns[userId] = conn
	return prev
}

// Lookup 查找用户当前登记的连接
func (r *ConnRegistry) Lookup(userId string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userId]
	return conn, ok
}

// Unregister 仅当登记的正是 conn 时才移除
// 重连竞争下旧连接的关闭不会把新连接踢掉
func (r *ConnRegistry) Unregister(userId string, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.conns[userId]; ok && current == conn {
		delete(r.conns, userId)
		return true
	}
	return false
}

// Len 在线用户数
func (r *ConnRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
