// Package mysql 负责建立数据库连接、自动迁移表结构、初始化 Repository 层
// 生产环境使用 MySQL，单机部署与测试可切换为 SQLite
package mysql

import (
	"fmt"

	"pulse_chat_server/internal/config"
	"pulse_chat_server/internal/dao/mysql/repository"
	"pulse_chat_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Open 按配置打开数据库连接并迁移表结构
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverMySQL:
		// 格式：user:password@tcp(host:port)/database?params
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DatabaseName)
		dialector = mysqldriver.Open(dsn)
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.SqlitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true, // 唯一键冲突转换为 gorm.ErrDuplicatedKey
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver != DriverMySQL {
		// SQLite 只允许单写，串行化连接避免 database is locked
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 自动迁移表结构
// 只会新增表和字段，不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserInfo{},
		&model.Session{},
		&model.Message{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Init 初始化数据库连接并返回 Repository 层实例，失败直接退出
func Init() *repository.Repositories {
	conf := config.GetConfig()
	db, err := Open(conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("init database failed", zap.Error(err))
	}
	zap.L().Info("database ready", zap.String("driver", conf.DatabaseConfig.Driver))
	return repository.NewRepositories(db)
}
