// Package mysqltest 为各层测试提供内存数据库
package mysqltest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var memSeq atomic.Int64

// OpenDB 打开一个独立的内存 SQLite 库并迁移表结构，测试结束自动关闭
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:pulse_test_%d?mode=memory&cache=shared", memSeq.Add(1))
	db, err := mysql.Open(config.DatabaseConfig{Driver: mysql.DriverSQLite, SqlitePath: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
