package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/hourglass/internal/model"
)

type BlockRepository interface {
	Create(ctx context.Context, blockerID, blockedID string) error
	Delete(ctx context.Context, blockerID, blockedID string) error
	// ExistsEither 任一方向存在拉黑即返回 true
	ExistsEither(ctx context.Context, a, b string) (bool, error)
	ListBlocked(ctx context.Context, blockerID string, offset, limit int) ([]*model.Block, error)
	BlockedIDs(ctx context.Context, blockerID string) ([]string, error)
}

type blockRepository struct{ db *gorm.DB }

func NewBlockRepository(db *gorm.DB) BlockRepository { return &blockRepository{db: db} }

func (r *blockRepository) Create(ctx context.Context, blockerID, blockedID string) error {
	b := &model.Block{ID: uuid.New().String(), BlockerID: blockerID, BlockedID: blockedID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(b).Error
}

func (r *blockRepository) Delete(ctx context.Context, blockerID, blockedID string) error {
	return r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&model.Block{}).Error
}

func (r *blockRepository) ExistsEither(ctx context.Context, a, b string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *blockRepository) ListBlocked(ctx context.Context, blockerID string, offset, limit int) ([]*model.Block, error) {
	var res []*model.Block
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at, id").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *blockRepository) BlockedIDs(ctx context.Context, blockerID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Block{}).
		Where("blocker_id = ?", blockerID).
		Order("created_at, id").
		Pluck("blocked_id", &ids).Error
	return ids, err
}
