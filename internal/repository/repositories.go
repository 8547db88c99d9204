package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repositories 聚合所有仓储，Transaction 内的回调拿到的是绑定同一事务的副本
type Repositories struct {
	db *gorm.DB

	Users      UserRepository
	Follows    FollowRepository
	Fans       FanRepository
	Blocks     BlockRepository
	Categories CategoryRepository
	Snapshots  SnapshotRepository
	Social     SocialRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		Users:      NewUserRepository(db),
		Follows:    NewFollowRepository(db),
		Fans:       NewFanRepository(db),
		Blocks:     NewBlockRepository(db),
		Categories: NewCategoryRepository(db),
		Snapshots:  NewSnapshotRepository(db),
		Social:     NewSocialRepository(db),
	}
}

// Transaction 全部成功才提交；fn 返回错误则整体回滚
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// DB 暴露底层连接，仅供迁移与健康检查
func (r *Repositories) DB() *gorm.DB { return r.db }

// forUpdate postgres 下加行锁；sqlite 整库串行写，无需也不支持 FOR UPDATE
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
