package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/model"
)

type SnapshotRepository interface {
	Get(ctx context.Context, userID, date string) (*model.Snapshot, error)
	// GetForUpdate 在事务内读取并锁定当天快照，用于合并写
	GetForUpdate(ctx context.Context, userID, date string) (*model.Snapshot, error)
	Create(ctx context.Context, s *model.Snapshot) error
	UpdateHours(ctx context.Context, s *model.Snapshot) error
	ListByDates(ctx context.Context, userID string, dates []string) ([]*model.Snapshot, error)
}

type snapshotRepository struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository { return &snapshotRepository{db: db} }

func (r *snapshotRepository) Get(ctx context.Context, userID, date string) (*model.Snapshot, error) {
	return r.get(r.db.WithContext(ctx), userID, date)
}

func (r *snapshotRepository) GetForUpdate(ctx context.Context, userID, date string) (*model.Snapshot, error) {
	return r.get(forUpdate(r.db.WithContext(ctx)), userID, date)
}

func (r *snapshotRepository) get(db *gorm.DB, userID, date string) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := db.Where("user_id = ? AND date = ?", userID, date).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *snapshotRepository) Create(ctx context.Context, s *model.Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *snapshotRepository) UpdateHours(ctx context.Context, s *model.Snapshot) error {
	// serializer 字段需要走 Select + Updates(struct) 才会被序列化
	return r.db.WithContext(ctx).
		Model(&model.Snapshot{ID: s.ID}).
		Select("Hours", "Username", "LastUpdated").
		Updates(s).Error
}

func (r *snapshotRepository) ListByDates(ctx context.Context, userID string, dates []string) ([]*model.Snapshot, error) {
	if len(dates) == 0 {
		return []*model.Snapshot{}, nil
	}
	var res []*model.Snapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date IN ?", userID, dates).
		Order("date DESC").
		Find(&res).Error
	return res, err
}
