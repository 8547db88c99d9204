package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/cache"
	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
)

// maxUsernameLen 按字符计，与 varchar(64) 一致
const maxUsernameLen = 64

// Clock 可替换的时间源
type Clock func() time.Time

// ProfileCache 用户身份信息缓存（见 internal/cache）
type ProfileCache interface {
	Load(ctx context.Context, ids []string, load cache.ProfileLoader) ([]model.UserSummary, error)
}

// UserDirectory 用户目录：身份、用户名与类别配置
type UserDirectory interface {
	CreateUser(ctx context.Context, id, email, username string) (*model.User, error)
	// GetUser 返回用户及其 following / followers / blocked 集合
	GetUser(ctx context.Context, id string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	RenameUser(ctx context.Context, id, newUsername string) error
	SetProfileImage(ctx context.Context, id string, ref *string) error
	Touch(ctx context.Context, id string) error
	GetProfiles(ctx context.Context, ids []string) ([]model.UserSummary, error)

	ListCategories(ctx context.Context, ownerID string) ([]*model.Category, error)
	CreateCategory(ctx context.Context, ownerID, name string, color model.Color) (*model.Category, error)
	UpdateCategory(ctx context.Context, ownerID, id, name string, color model.Color) (*model.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

type userDirectory struct {
	repos    *repository.Repositories
	profiles ProfileCache
	events   event.Publisher
	now      Clock
}

// NewUserDirectory profiles 可为 nil（不使用缓存）
func NewUserDirectory(repos *repository.Repositories, profiles ProfileCache, events event.Publisher, now Clock) UserDirectory {
	if events == nil {
		events = event.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &userDirectory{repos: repos, profiles: profiles, events: events, now: now}
}

func validateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return invalid("username is required")
	}
	if username != strings.TrimSpace(username) {
		return invalid("username must not start or end with spaces")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return invalid("username is too long")
	}
	return nil
}

func (d *userDirectory) CreateUser(ctx context.Context, id, email, username string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("uid is required")
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	now := d.now()
	u := &model.User{ID: id, Email: email, Username: username, CreatedAt: now, LastActive: now}

	err := d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Users.GetByID(ctx, id); err == nil {
			return fmt.Errorf("%w: user already exists", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := tx.Users.GetByUsername(ctx, username); err == nil {
			return fmt.Errorf("%w: username already taken", ErrConflict)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Users.Create(ctx, u)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return nil, translate(err)
	}
	u.Following, u.Followers, u.Blocked = []string{}, []string{}, []string{}
	return u, nil
}

func (d *userDirectory) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := d.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if err := d.loadRelations(ctx, u); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (d *userDirectory) loadRelations(ctx context.Context, u *model.User) error {
	var err error
	if u.Following, err = d.repos.Follows.FolloweeIDs(ctx, u.ID); err != nil {
		return err
	}
	if u.Followers, err = d.repos.Fans.FanIDs(ctx, u.ID); err != nil {
		return err
	}
	if u.Blocked, err = d.repos.Blocks.BlockedIDs(ctx, u.ID); err != nil {
		return err
	}
	return nil
}

func (d *userDirectory) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, ErrUserNotFound
	}
	u, err := d.repos.Users.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (d *userDirectory) RenameUser(ctx context.Context, id, newUsername string) error {
	if err := validateUsername(newUsername); err != nil {
		return err
	}
	var old string
	err := d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		u, err := tx.Users.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "user")
		}
		if u.Username == newUsername {
			return invalid("that is already your current username")
		}
		other, err := tx.Users.GetByUsername(ctx, newUsername)
		switch {
		case err == nil && other.ID != id:
			return fmt.Errorf("%w: username already taken", ErrConflict)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		old = u.Username
		return tx.Users.UpdateUsername(ctx, id, newUsername)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return translate(err)
	}
	d.events.Publish(event.ProfileChanged{UserID: id, OldUsername: old, NewUsername: newUsername, At: d.now()})
	return nil
}

func (d *userDirectory) SetProfileImage(ctx context.Context, id string, ref *string) error {
	if ref != nil && strings.TrimSpace(*ref) == "" {
		ref = nil
	}
	if err := d.repos.Users.UpdateProfileImage(ctx, id, ref); err != nil {
		return notFound(err, "user")
	}
	d.events.Publish(event.ProfileChanged{UserID: id, At: d.now()})
	return nil
}

func (d *userDirectory) Touch(ctx context.Context, id string) error {
	if err := d.repos.Users.Touch(ctx, id, d.now()); err != nil {
		return notFound(err, "user")
	}
	return nil
}

// GetProfiles 保持 ids 的顺序，不存在的用户被跳过
func (d *userDirectory) GetProfiles(ctx context.Context, ids []string) ([]model.UserSummary, error) {
	load := func(ctx context.Context, ids []string) ([]*model.User, error) {
		return d.repos.Users.GetByIDs(ctx, ids)
	}
	if d.profiles != nil {
		res, err := d.profiles.Load(ctx, ids, load)
		return res, translate(err)
	}
	users, err := load(ctx, ids)
	if err != nil {
		return nil, translate(err)
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	res := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			res = append(res, u.Summary())
		}
	}
	return res, nil
}

// ListCategories 首次访问时预置默认类别
func (d *userDirectory) ListCategories(ctx context.Context, ownerID string) ([]*model.Category, error) {
	var cats []*model.Category
	err := d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Users.GetByID(ctx, ownerID); err != nil {
			return notFound(err, "user")
		}
		n, err := tx.Categories.Count(ctx, ownerID)
		if err != nil {
			return err
		}
		if n == 0 {
			now := d.now()
			seed := make([]*model.Category, 0, len(model.DefaultCategories()))
			for i, def := range model.DefaultCategories() {
				seed = append(seed, &model.Category{
					ID: uuid.New().String(), OwnerID: ownerID, Name: def.Name, Color: def.Color,
					IsDefault: true, Position: i, CreatedAt: now, UpdatedAt: now,
				})
			}
			if err := tx.Categories.CreateBatch(ctx, seed); err != nil {
				return err
			}
		}
		cats, err = tx.Categories.List(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return cats, nil
}

func (d *userDirectory) CreateCategory(ctx context.Context, ownerID, name string, color model.Color) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := (model.ActivityCategory{Name: name, Color: color}).Validate(); err != nil {
		return nil, invalid(err.Error())
	}
	// 确保默认类别已经预置，新类别排在其后
	existing, err := d.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Name == name {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
	}
	now := d.now()
	cat := &model.Category{
		ID: uuid.New().String(), OwnerID: ownerID, Name: name, Color: color,
		Position: len(existing), CreatedAt: now, UpdatedAt: now,
	}
	if err := d.repos.Categories.CreateBatch(ctx, []*model.Category{cat}); err != nil {
		return nil, translate(err)
	}
	d.events.Publish(event.CategoriesChanged{UserID: ownerID, At: now})
	return cat, nil
}

// UpdateCategory 默认类别的名称与颜色都不可修改
func (d *userDirectory) UpdateCategory(ctx context.Context, ownerID, id, name string, color model.Color) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if err := (model.ActivityCategory{Name: name, Color: color}).Validate(); err != nil {
		return nil, invalid(err.Error())
	}
	var cat *model.Category
	err := d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		c, err := tx.Categories.Get(ctx, ownerID, id)
		if err != nil {
			return notFound(err, "category")
		}
		if c.IsDefault {
			return fmt.Errorf("%w: default categories cannot be edited", ErrForbidden)
		}
		c.Name, c.Color, c.UpdatedAt = name, color, d.now()
		if err := tx.Categories.Update(ctx, c); err != nil {
			return err
		}
		cat = c
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: category %q already exists", ErrConflict, name)
		}
		return nil, translate(err)
	}
	d.events.Publish(event.CategoriesChanged{UserID: ownerID, At: d.now()})
	return cat, nil
}

func (d *userDirectory) DeleteCategory(ctx context.Context, ownerID, id string) error {
	err := d.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		c, err := tx.Categories.Get(ctx, ownerID, id)
		if err != nil {
			return notFound(err, "category")
		}
		if c.IsDefault {
			return fmt.Errorf("%w: default categories cannot be deleted", ErrForbidden)
		}
		return tx.Categories.Delete(ctx, ownerID, id)
	})
	if err != nil {
		return translate(err)
	}
	d.events.Publish(event.CategoriesChanged{UserID: ownerID, At: d.now()})
	return nil
}
