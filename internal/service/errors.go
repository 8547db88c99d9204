package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrFollowSelf = fmt.Errorf("%w: cannot follow yourself", ErrForbidden)
	ErrBlockSelf  = fmt.Errorf("%w: cannot block yourself", ErrForbidden)
	// ErrUserNotFound 搜索命中被拉黑用户时也返回它，调用方无法区分两种情况
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrNotFound)
)

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidArgument, msg) }

// translate 把存储层错误映射为领域错误；已是领域错误的原样返回
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrForbidden),
		errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrStoreUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// notFound 为 gorm.ErrRecordNotFound 补充可读信息
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s not found", ErrNotFound, what)
	}
	return translate(err)
}
