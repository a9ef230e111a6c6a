// ws_gateway.go
// 核心职责：WebSocket 连接生命周期管理
// 1. 升级 HTTP 请求 (Upgrade)
// 2. 封装 UserConn，读协程把每帧交给 Relay，写协程独占底层连接
// 3. 心跳保活，连接关闭后从登记表注销
package chat

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/model"
)

// frameTimeout 单帧处理（主要是落库）的超时
const frameTimeout = 10 * time.Second

// UserConn 服务端与浏览器之间的一条 WebSocket 连接
type UserConn struct {
	conn      *websocket.Conn
	userId    string
	send      chan []byte
	done      chan struct{}
	open      atomic.Bool
	closeOnce sync.Once
}

func newUserConn(conn *websocket.Conn, userId string, bufSize int) *UserConn {
	c := &UserConn{
		conn:   conn,
		userId: userId,
		send:   make(chan []byte, bufSize),
		done:   make(chan struct{}),
	}
	c.open.Store(true)
	return c
}

// UserId 未认证连接返回空字符串
func (c *UserConn) UserId() string {
	return c.userId
}

// IsOpen 连接是否仍可写
func (c *UserConn) IsOpen() bool {
	return c.open.Load()
}

// Send 把一帧放入发送队列，队列满或连接已关闭时丢弃并返回 false
func (c *UserConn) Send(frame []byte) bool {
	if !c.open.Load() {
		return false
	}
	select {
	case <-c.done:
		return false
	case c.send <- frame:
		return true
	default:
		zap.L().Warn("ws send queue full, frame dropped", zap.String("user_id", c.userId))
		return false
	}
}

// Close 标记连接关闭，可重复调用
// 底层连接由写协程在发出关闭帧后释放
func (c *UserConn) Close() {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
	})
}

// readPump 顺序读取并处理本连接的帧，返回即连接结束
func (c *UserConn) readPump(ctx context.Context, relay *Relay, cfg config.WebsocketConfig) {
	defer c.Close()

	if cfg.MaxMessageSize > 0 {
		c.conn.SetReadLimit(cfg.MaxMessageSize)
	}
	pongWait := cfg.PongWaitDuration()
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				zap.L().Debug("ws read error", zap.String("user_id", c.userId), zap.Error(err))
			}
			return
		}
		frameCtx, cancel := context.WithTimeout(ctx, frameTimeout)
		relay.HandleFrame(frameCtx, c, data)
		cancel()
	}
}

// writePump 唯一写底层连接的协程，负责发送队列与心跳
func (c *UserConn) writePump(cfg config.WebsocketConfig) {
	writeWait := cfg.WriteWaitDuration()
	ticker := time.NewTicker(cfg.PingPeriod())
	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				zap.L().Debug("ws write error", zap.String("user_id", c.userId), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

// Gateway 负责升级连接并驱动每条连接的读写协程
type Gateway struct {
	relay    *Relay
	cfg      config.WebsocketConfig
	upgrader websocket.Upgrader
	ctx      context.Context
	cancel   context.CancelFunc

	mu    sync.Mutex
	conns map[*UserConn]struct{}
	wg    sync.WaitGroup
}

// NewGateway 创建网关，checkOrigin 为 nil 时允许任意来源（由 CORS 与 Cookie 认证兜底）
func NewGateway(relay *Relay, cfg config.WebsocketConfig, checkOrigin func(r *http.Request) bool) *Gateway {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	if cfg.SendBufferSize <= 0 {
		cfg.SendBufferSize = 100
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Gateway{
		relay: relay,
		cfg:   cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     checkOrigin,
		},
		ctx:    ctx,
		cancel: cancel,
		conns:  make(map[*UserConn]struct{}),
	}
}

// Serve 升级请求并运行连接，user 为 nil 表示会话无效
// 未认证的连接仍会建立，但它发来的帧全部被忽略
func (g *Gateway) Serve(c *gin.Context, user *model.UserInfo) {
	ws, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("ws upgrade failed", zap.Error(err))
		return
	}

	userId := ""
	if user != nil {
		userId = user.Uuid
	}
	conn := newUserConn(ws, userId, g.cfg.SendBufferSize)
	if !g.track(conn) {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}

	if userId == "" {
		zap.L().Info("ws connection without valid session", zap.String("ip", c.ClientIP()))
	} else {
		g.relay.Attach(conn)
		zap.L().Info("ws connected", zap.String("user_id", userId))
	}

	g.wg.Add(2)
	go func() {
		defer g.wg.Done()
		conn.writePump(g.cfg)
	}()
	go func() {
		defer g.wg.Done()
		conn.readPump(g.ctx, g.relay, g.cfg)
		g.relay.Detach(conn)
		g.untrack(conn)
		if userId != "" {
			zap.L().Info("ws disconnected", zap.String("user_id", userId))
		}
	}()
}

func (g *Gateway) track(conn *UserConn) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctx.Err() != nil {
		return false
	}
	g.conns[conn] = struct{}{}
	return true
}

func (g *Gateway) untrack(conn *UserConn) {
	g.mu.Lock()
	delete(g.conns, conn)
	g.mu.Unlock()
}

// Close 关闭全部连接并等待读写协程退出
func (g *Gateway) Close() {
	g.mu.Lock()
	g.cancel()
	conns := make([]*UserConn, 0, len(g.conns))
	for conn := range g.conns {
		conns = append(conns, conn)
	}
	g.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	g.wg.Wait()
}
