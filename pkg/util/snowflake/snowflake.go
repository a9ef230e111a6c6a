// Package snowflake 生成按时间递增的消息 ID
package snowflake

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node *snowflake.Node
	mu   sync.Mutex
)

// Init 初始化雪花节点，machineID 超出 0-1023 时退回 1
func Init(machineID int64) {
	mu.Lock()
	defer mu.Unlock()
	if machineID < 0 || machineID > 1023 {
		zap.L().Warn("invalid snowflake machine id, using 1", zap.Int64("machineID", machineID))
		machineID = 1
	}
	n, err := snowflake.NewNode(machineID)
	if err != nil {
		zap.L().Fatal("init snowflake node failed", zap.Error(err))
	}
	node = n
	zap.L().Info("snowflake node initialized", zap.Int64("machineID", machineID))
}

func current() *snowflake.Node {
	mu.Lock()
	n := node
	mu.Unlock()
	if n == nil {
		Init(1)
		mu.Lock()
		n = node
		mu.Unlock()
	}
	return n
}

// Generate 生成雪花 ID，并返回 ID 中内嵌的毫秒时间戳
// 用该时间作为创建时间，(时间, ID) 的顺序与 ID 顺序始终一致
func Generate() (int64, time.Time) {
	id := current().Generate()
	return id.Int64(), time.UnixMilli(id.Time())
}
