package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/model"
)

type CategoryRepository interface {
	List(ctx context.Context, ownerID string) ([]*model.Category, error)
	Count(ctx context.Context, ownerID string) (int64, error)
	Get(ctx context.Context, ownerID, id string) (*model.Category, error)
	CreateBatch(ctx context.Context, cats []*model.Category) error
	Update(ctx context.Context, cat *model.Category) error
	Delete(ctx context.Context, ownerID, id string) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepository{db: db} }

func (r *categoryRepository) List(ctx context.Context, ownerID string) ([]*model.Category, error) {
	var res []*model.Category
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("position, created_at").
		Find(&res).Error
	return res, err
}

func (r *categoryRepository) Count(ctx context.Context, ownerID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("owner_id = ?", ownerID).Count(&cnt).Error
	return cnt, err
}

func (r *categoryRepository) Get(ctx context.Context, ownerID, id string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) CreateBatch(ctx context.Context, cats []*model.Category) error {
	if len(cats) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&cats).Error
}

func (r *categoryRepository) Update(ctx context.Context, cat *model.Category) error {
	return r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("owner_id = ? AND id = ?", cat.OwnerID, cat.ID).
		Updates(map[string]interface{}{
			"name":          cat.Name,
			"color_red":     cat.Color.Red,
			"color_green":   cat.Color.Green,
			"color_blue":    cat.Color.Blue,
			"color_opacity": cat.Color.Opacity,
			"updated_at":    cat.UpdatedAt,
		}).Error
}

func (r *categoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).Delete(&model.Category{}).Error
}
