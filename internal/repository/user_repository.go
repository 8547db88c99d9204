package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	// LockByIDs 按 id 升序锁定用户行，用于串行化同一对用户之间的关系变更
	LockByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateProfileImage(ctx context.Context, id string, ref *string) error
	Touch(ctx context.Context, id string, at time.Time) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 精确匹配，区分大小写
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	var res []*model.User
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&res).Error
	return res, err
}

func (r *userRepository) LockByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	var res []*model.User
	err := forUpdate(r.db.WithContext(ctx)).Where("id IN ?", ids).Order("id").Find(&res).Error
	return res, err
}

func (r *userRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return r.update(ctx, id, "username", username)
}

func (r *userRepository) UpdateProfileImage(ctx context.Context, id string, ref *string) error {
	return r.update(ctx, id, "profile_image_url", ref)
}

func (r *userRepository) Touch(ctx context.Context, id string, at time.Time) error {
	return r.update(ctx, id, "last_active", at)
}

func (r *userRepository) update(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
