//go:build integration
// +build integration

package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// 需要本机 MySQL 可用，连接参数取自环境变量，缺省按 configs/config.toml
//
//	go test -tags integration ./internal/dao/mysql/
func mysqlConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       DriverMySQL,
		Host:         "127.0.0.1",
		Port:         3306,
		User:         "root",
		Password:     "123456",
		DatabaseName: "pulse_chat_it",
	}
	if v := os.Getenv("PULSE_MYSQL_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("PULSE_MYSQL_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		require.NoError(t, err)
		cfg.Port = port
	}
	if v := os.Getenv("PULSE_MYSQL_USER"); v != "" {
		cfg.User = v
	}
	if v, ok := os.LookupEnv("PULSE_MYSQL_PASSWORD"); ok {
		cfg.Password = v
	}
	return cfg
}

func ensureMySQLDatabaseExists(t *testing.T, cfg config.DatabaseConfig) {
	t.Helper()
	dsnNoDB := fmt.Sprintf("%s:%s@tcp(%s:%d)/?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port)
	db, err := sql.Open("mysql", dsnNoDB)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())
	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + cfg.DatabaseName + " DEFAULT CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci")
	require.NoError(t, err)
}

func TestMySQLRepositories(t *testing.T) {
	cfg := mysqlConfig(t)
	ensureMySQLDatabaseExists(t, cfg)

	db, err := Open(cfg)
	require.NoError(t, err)
	repos := repository.NewRepositories(db)
	t.Cleanup(func() { _ = repos.Close() })

	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()
	for _, id := range []string{a, b} {
		require.NoError(t, repos.User.Create(ctx, &model.UserInfo{Uuid: id, Username: "it_" + id[:8]}))
	}

	base := time.Now().Truncate(time.Millisecond)
	for i, m := range []model.Message{
		{SenderId: a, ReceiverId: b, Content: "one"},
		{SenderId: b, ReceiverId: a, Content: "two"},
		{SenderId: a, ReceiverId: b, Content: "three"},
	} {
		m.Id = base.UnixNano() + int64(i)
		m.Type = model.MessageTypeText
		m.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		require.NoError(t, repos.Message.Create(ctx, &m))
	}

	conv, err := repos.Message.FindConversation(ctx, b, a)
	require.NoError(t, err)
	require.Len(t, conv, 3)
	require.Equal(t, "three", conv[2].Content)

	latest, err := repos.Message.FindLatestPerCounterpart(ctx, b)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, "three", latest[0].Content)

	unread, err := repos.Message.CountUnreadBySender(ctx, b)
	require.NoError(t, err)
	require.Equal(t, int64(2), unread[a])

	n, err := repos.Message.MarkRead(ctx, a, b, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	err = repos.User.Create(ctx, &model.UserInfo{Uuid: uuid.NewString(), Username: "it_" + a[:8]})
	require.Error(t, err)
}
