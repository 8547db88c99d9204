package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/hourglass/config"
)

// InitDB 根据配置打开数据库连接并设置连接池
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dc := cfg.Database

	var dialector gorm.Dialector
	switch dc.Driver {
	case "sqlite":
		dsn := dc.DSN
		if dsn == "" {
			dsn = "hourglass.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		dsn := dc.DSN
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
				dc.Host, dc.User, dc.Password, dc.DBName, dc.Port, dc.SSLMode)
		}
		dialector = postgres.Open(dsn)
	}

	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dc.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dc.MaxIdleConns)
	}
	if dc.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dc.MaxOpenConns)
	}
	if dc.Driver == "sqlite" {
		// sqlite 单写者
		sqlDB.SetMaxOpenConns(1)
	}
	if dc.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dc.ConnMaxLifetime)
	}
	return db, nil
}

// Close 关闭底层连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
