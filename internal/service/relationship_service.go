package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// RelationshipService 关系链服务：关注、拉黑与可见性判断
//
// A 关注 B 时 follows(A,B) 与 fans(B,A) 在同一事务内写入，
// 因此 A.following 与 B.followers 始终对称。
type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUserID string) error
	Unfollow(ctx context.Context, fromUserID, toUserID string) error
	// Block 同时解除双方之间的关注关系
	Block(ctx context.Context, blockerID, blockedID string) error
	// Unblock 不会恢复之前的关注
	Unblock(ctx context.Context, blockerID, blockedID string) error

	IsMutuallyFollowing(ctx context.Context, a, b string) (bool, error)
	IsBlockedEitherDirection(ctx context.Context, a, b string) (bool, error)
	// SearchVisibleUser 对不存在和被拉黑返回同一个 ErrUserNotFound
	SearchVisibleUser(ctx context.Context, searcherID, username string) (*model.User, error)

	ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error)
	ListBlocked(ctx context.Context, userID string, page, pageSize int) ([]string, error)
}

type relationshipService struct {
	repos  *repository.Repositories
	events event.Publisher
	now    Clock
}

func NewRelationshipService(repos *repository.Repositories, events event.Publisher, now Clock) RelationshipService {
	if events == nil {
		events = event.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	return &relationshipService{repos: repos, events: events, now: now}
}

// lockPair 锁定两个用户行；任一不存在返回 ErrNotFound
func lockPair(ctx context.Context, tx *repository.Repositories, a, b string) error {
	users, err := tx.Users.LockByIDs(ctx, []string{a, b})
	if err != nil {
		return err
	}
	if len(users) != 2 {
		return fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return nil
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := lockPair(ctx, tx, fromUserID, toUserID); err != nil {
			return err
		}
		blocked, err := tx.Blocks.ExistsEither(ctx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%w: cannot follow this user", ErrForbidden)
		}
		if err := tx.Follows.Create(ctx, fromUserID, toUserID); err != nil {
			return err
		}
		return tx.Fans.Create(ctx, toUserID, fromUserID)
	})
	if err != nil {
		return translate(err)
	}
	s.events.Publish(event.FollowChanged{FollowerID: fromUserID, FolloweeID: toUserID, Following: true, At: s.now()})
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := lockPair(ctx, tx, fromUserID, toUserID); err != nil {
			return err
		}
		if err := tx.Follows.Delete(ctx, fromUserID, toUserID); err != nil {
			return err
		}
		return tx.Fans.Delete(ctx, toUserID, fromUserID)
	})
	if err != nil {
		return translate(err)
	}
	s.events.Publish(event.FollowChanged{FollowerID: fromUserID, FolloweeID: toUserID, Following: false, At: s.now()})
	return nil
}

func (s *relationshipService) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrBlockSelf
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := lockPair(ctx, tx, blockerID, blockedID); err != nil {
			return err
		}
		if err := tx.Blocks.Create(ctx, blockerID, blockedID); err != nil {
			return err
		}
		// 双向解除关注，粉丝表同步
		for _, p := range [][2]string{{blockerID, blockedID}, {blockedID, blockerID}} {
			if err := tx.Follows.Delete(ctx, p[0], p[1]); err != nil {
				return err
			}
			if err := tx.Fans.Delete(ctx, p[1], p[0]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err)
	}
	s.events.Publish(event.BlockChanged{BlockerID: blockerID, BlockedID: blockedID, Blocked: true, At: s.now()})
	return nil
}

func (s *relationshipService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrBlockSelf
	}
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := lockPair(ctx, tx, blockerID, blockedID); err != nil {
			return err
		}
		return tx.Blocks.Delete(ctx, blockerID, blockedID)
	})
	if err != nil {
		return translate(err)
	}
	s.events.Publish(event.BlockChanged{BlockerID: blockerID, BlockedID: blockedID, Blocked: false, At: s.now()})
	return nil
}

func (s *relationshipService) IsMutuallyFollowing(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, nil
	}
	ab, err := s.repos.Follows.Exists(ctx, a, b)
	if err != nil || !ab {
		return false, translate(err)
	}
	ba, err := s.repos.Follows.Exists(ctx, b, a)
	if err != nil {
		return false, translate(err)
	}
	return ba, nil
}

func (s *relationshipService) IsBlockedEitherDirection(ctx context.Context, a, b string) (bool, error) {
	if a == b {
		return false, nil
	}
	blocked, err := s.repos.Blocks.ExistsEither(ctx, a, b)
	return blocked, translate(err)
}

func (s *relationshipService) SearchVisibleUser(ctx context.Context, searcherID, username string) (*model.User, error) {
	if searcherID == "" {
		return nil, invalid("searcher is required")
	}
	if username == "" {
		return nil, ErrUserNotFound
	}
	u, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	blocked, err := s.IsBlockedEitherDirection(ctx, searcherID, u.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return (page - 1) * pageSize, pageSize
}

func (s *relationshipService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.repos.Users.GetByID(ctx, userID); err != nil {
		return notFound(err, "user")
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	items, err := s.repos.Follows.ListFollowings(ctx, userID, offset, limit)
	if err != nil {
		return nil, translate(err)
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FolloweeID
	}
	return res, nil
}

func (s *relationshipService) ListFans(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	items, err := s.repos.Fans.ListFans(ctx, userID, offset, limit)
	if err != nil {
		return nil, translate(err)
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.FanID
	}
	return res, nil
}

func (s *relationshipService) ListBlocked(ctx context.Context, userID string, page, pageSize int) ([]string, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	offset, limit := pageBounds(page, pageSize)
	items, err := s.repos.Blocks.ListBlocked(ctx, userID, offset, limit)
	if err != nil {
		return nil, translate(err)
	}
	res := make([]string, len(items))
	for i, it := range items {
		res[i] = it.BlockedID
	}
	return res, nil
}
