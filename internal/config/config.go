// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName  string `toml:"appName"`  // 应用名称
	Host     string `toml:"host"`     // 监听地址，如 "0.0.0.0"
	Port     int    `toml:"port"`     // 监听端口，如 3000
	Mode     string `toml:"mode"`     // 运行模式：dev 或 release
	ForceTLS bool   `toml:"forceTLS"` // 是否强制跳转 HTTPS（由 Nginx 终结 TLS 时关闭）
	// AllowOrigins 允许携带 Cookie 跨域访问的前端地址，为空时放行任意来源
	AllowOrigins []string `toml:"allowOrigins"`
}

// DatabaseConfig 数据库连接配置
// Driver 为 "mysql" 时使用 Host/Port 等字段，为 "sqlite" 时使用 SqlitePath
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SqlitePath   string `toml:"sqlitePath"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 关闭时缓存与在线状态退化为进程内
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // 无密码留空
	Db       int    `toml:"db"`       // 数据库编号
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig Kafka 配置
// MessageMode 为 "kafka" 时，聊天事件（消息创建/已读）会发布到 ChatTopic 供下游消费
type KafkaConfig struct {
	MessageMode string        `toml:"messageMode"` // "channel" 或 "kafka"
	HostPort    string        `toml:"hostPort"`    // 如 "localhost:9092"
	ChatTopic   string        `toml:"chatTopic"`   // 聊天事件主题
	Timeout     time.Duration `toml:"timeout"`     // 写超时（秒）
}

// SessionConfig 登录会话配置
type SessionConfig struct {
	Secret          string `toml:"secret"`          // 会话 Cookie 签名密钥
	ExpiryHours     int    `toml:"expiryHours"`     // 会话有效期（小时）
	CookieName      string `toml:"cookieName"`      // Cookie 名称
	CacheTTLSeconds int    `toml:"cacheTTLSeconds"` // 会话解析结果缓存时长
}

// WebsocketConfig 实时通道配置
type WebsocketConfig struct {
	ReadBufferSize  int   `toml:"readBufferSize"`
	WriteBufferSize int   `toml:"writeBufferSize"`
	WriteWait       int   `toml:"writeWait"` // 秒
	PongWait        int   `toml:"pongWait"`  // 秒
	MaxMessageSize  int64 `toml:"maxMessageSize"`
	SendBufferSize  int   `toml:"sendBufferSize"`
}

// SnowflakeConfig 雪花算法配置
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 范围 0-1023
}

// RateLimitConfig 认证接口限流配置
type RateLimitConfig struct {
	AuthRequestsPerMinute int `toml:"authRequestsPerMinute"`
	Burst                 int `toml:"burst"`
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	SessionConfig   `toml:"sessionConfig"`
	WebsocketConfig `toml:"websocketConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
	RateLimitConfig `toml:"rateLimitConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// configPaths 候选配置文件路径（优先加载本地配置）
var configPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// Default 返回一份可直接运行的默认配置（sqlite + channel 模式）
func Default() *Config {
	return &Config{
		MainConfig: MainConfig{
			AppName: "pulse_chat_server",
			Host:    "0.0.0.0",
			Port:    3000,
			Mode:    "dev",
		},
		DatabaseConfig: DatabaseConfig{
			Driver:     "sqlite",
			SqlitePath: "chat.db",
		},
		LogConfig: LogConfig{
			LogPath: "logs",
			Level:   "info",
		},
		KafkaConfig: KafkaConfig{
			MessageMode: "channel",
			ChatTopic:   "chat_events",
			Timeout:     1,
		},
		SessionConfig: SessionConfig{
			Secret:          "change-me-in-production",
			ExpiryHours:     168,
			CookieName:      "session_id",
			CacheTTLSeconds: 300,
		},
		WebsocketConfig: WebsocketConfig{
			ReadBufferSize:  2048,
			WriteBufferSize: 2048,
			WriteWait:       10,
			PongWait:        60,
			MaxMessageSize:  1 << 20,
			SendBufferSize:  100,
		},
		SnowflakeConfig: SnowflakeConfig{MachineID: 1},
		RateLimitConfig: RateLimitConfig{
			AuthRequestsPerMinute: 30,
			Burst:                 10,
		},
	}
}

// LoadConfig 依次尝试候选路径，找到第一个可用的配置文件即停止
// 文件中未出现的字段保留默认值
func LoadConfig() error {
	for _, path := range configPaths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，加载失败时使用默认值
func GetConfig() *Config {
	if config == nil {
		config = Default()
		_ = LoadConfig()
	}
	return config
}

// SetConfig 替换全局配置（测试与嵌入场景使用）
func SetConfig(c *Config) {
	config = c
}

// WriteWaitDuration 写超时
func (w WebsocketConfig) WriteWaitDuration() time.Duration {
	return time.Duration(w.WriteWait) * time.Second
}

// PongWaitDuration 心跳超时
func (w WebsocketConfig) PongWaitDuration() time.Duration {
	return time.Duration(w.PongWait) * time.Second
}

// PingPeriod 心跳间隔，必须小于 PongWait
func (w WebsocketConfig) PingPeriod() time.Duration {
	return (w.PongWaitDuration() * 9) / 10
}

// OriginAllowed CORS 与 WebSocket 共用的来源校验
func (m MainConfig) OriginAllowed(origin string) bool {
	if len(m.AllowOrigins) == 0 {
		return true
	}
	for _, o := range m.AllowOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// IsRelease 是否为生产模式
func (m MainConfig) IsRelease() bool {
	return m.Mode == "release"
}

// SessionExpiry 会话有效期
func (s SessionConfig) SessionExpiry() time.Duration {
	return time.Duration(s.ExpiryHours) * time.Hour
}
