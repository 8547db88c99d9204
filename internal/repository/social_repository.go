package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/model"
)

// SocialRepository 评论与加油
type SocialRepository interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	ListComments(ctx context.Context, snapshotID string) ([]*model.Comment, error)
	CheerExists(ctx context.Context, snapshotID, userID string) (bool, error)
	CreateCheer(ctx context.Context, snapshotID, userID string) error
	DeleteCheer(ctx context.Context, snapshotID, userID string) error
	CountCheers(ctx context.Context, snapshotID string) (int64, error)
}

type socialRepository struct{ db *gorm.DB }

func NewSocialRepository(db *gorm.DB) SocialRepository { return &socialRepository{db: db} }

func (r *socialRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *socialRepository) ListComments(ctx context.Context, snapshotID string) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Where("snapshot_id = ?", snapshotID).
		Order("created_at, id").
		Find(&res).Error
	return res, err
}

func (r *socialRepository) CheerExists(ctx context.Context, snapshotID, userID string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Cheer{}).
		Where("snapshot_id = ? AND user_id = ?", snapshotID, userID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *socialRepository) CreateCheer(ctx context.Context, snapshotID, userID string) error {
	return r.db.WithContext(ctx).Create(&model.Cheer{ID: uuid.New().String(), SnapshotID: snapshotID, UserID: userID}).Error
}

func (r *socialRepository) DeleteCheer(ctx context.Context, snapshotID, userID string) error {
	return r.db.WithContext(ctx).
		Where("snapshot_id = ? AND user_id = ?", snapshotID, userID).
		Delete(&model.Cheer{}).Error
}

func (r *socialRepository) CountCheers(ctx context.Context, snapshotID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Cheer{}).Where("snapshot_id = ?", snapshotID).Count(&cnt).Error
	return cnt, err
}
