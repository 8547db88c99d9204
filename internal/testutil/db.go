package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/hourglass/internal/model"
)

// NewDB 为每个测试创建独立的内存 sqlite，并完成迁移
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// 共享缓存的内存库：单连接保证事务语义一致
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(model.All()...); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedUsers 以 id 作为用户名批量创建用户
func SeedUsers(tb testing.TB, db *gorm.DB, ids ...string) {
	tb.Helper()
	for _, id := range ids {
		u := &model.User{ID: id, Username: id, Email: id + "@example.com"}
		if err := db.Create(u).Error; err != nil {
			tb.Fatalf("seed user %s: %v", id, err)
		}
	}
}
