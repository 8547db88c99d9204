package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/xid"

	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
)

const maxCommentLen = 500

// Engagement 快照的加油与评论汇总
type Engagement struct {
	CheerCount      int64
	CheeredByViewer bool
	Comments        []*model.Comment
}

// SocialService 快照下的评论与加油；仅本人或互关好友可见可写
type SocialService interface {
	CanView(ctx context.Context, viewerID, ownerID string) (bool, error)
	AddComment(ctx context.Context, authorID, ownerID, date, text string) (*model.Comment, error)
	ListComments(ctx context.Context, viewerID, ownerID, date string) ([]*model.Comment, error)
	// ToggleCheer 返回切换后的状态与当前总数
	ToggleCheer(ctx context.Context, viewerID, ownerID, date string) (bool, int64, error)
	Engagement(ctx context.Context, snapshotID, viewerID string) (*Engagement, error)
}

type socialService struct {
	repos *repository.Repositories
	rel   RelationshipService
	now   Clock
}

func NewSocialService(repos *repository.Repositories, rel RelationshipService, now Clock) SocialService {
	if now == nil {
		now = time.Now
	}
	return &socialService{repos: repos, rel: rel, now: now}
}

func (s *socialService) CanView(ctx context.Context, viewerID, ownerID string) (bool, error) {
	if viewerID == ownerID {
		return true, nil
	}
	blocked, err := s.rel.IsBlockedEitherDirection(ctx, viewerID, ownerID)
	if err != nil || blocked {
		return false, err
	}
	return s.rel.IsMutuallyFollowing(ctx, viewerID, ownerID)
}

// requireSnapshot 校验可见性并确认快照存在
func (s *socialService) requireSnapshot(ctx context.Context, viewerID, ownerID, date string) (string, error) {
	if err := validDate(date); err != nil {
		return "", err
	}
	ok, err := s.CanView(ctx, viewerID, ownerID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: only mutual followers can interact with this grid", ErrForbidden)
	}
	if _, err := s.repos.Snapshots.Get(ctx, ownerID, date); err != nil {
		return "", notFound(err, "snapshot")
	}
	return model.SnapshotID(ownerID, date), nil
}

func (s *socialService) AddComment(ctx context.Context, authorID, ownerID, date, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment must not be empty")
	}
	if utf8.RuneCountInString(text) > maxCommentLen {
		return nil, invalid(fmt.Sprintf("comment must be at most %d characters", maxCommentLen))
	}
	snapshotID, err := s.requireSnapshot(ctx, authorID, ownerID, date)
	if err != nil {
		return nil, err
	}
	author, err := s.repos.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	c := &model.Comment{
		ID:             xid.New().String(),
		SnapshotID:     snapshotID,
		AuthorID:       authorID,
		AuthorUsername: author.Username,
		Text:           text,
		CreatedAt:      s.now(),
	}
	if err := s.repos.Social.CreateComment(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (s *socialService) ListComments(ctx context.Context, viewerID, ownerID, date string) ([]*model.Comment, error) {
	snapshotID, err := s.requireSnapshot(ctx, viewerID, ownerID, date)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Social.ListComments(ctx, snapshotID)
	return comments, translate(err)
}

func (s *socialService) ToggleCheer(ctx context.Context, viewerID, ownerID, date string) (bool, int64, error) {
	snapshotID, err := s.requireSnapshot(ctx, viewerID, ownerID, date)
	if err != nil {
		return false, 0, err
	}
	var (
		cheered bool
		count   int64
	)
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		exists, err := tx.Social.CheerExists(ctx, snapshotID, viewerID)
		if err != nil {
			return err
		}
		if exists {
			err = tx.Social.DeleteCheer(ctx, snapshotID, viewerID)
		} else {
			err = tx.Social.CreateCheer(ctx, snapshotID, viewerID)
		}
		if err != nil {
			return err
		}
		cheered = !exists
		count, err = tx.Social.CountCheers(ctx, snapshotID)
		return err
	})
	if err != nil {
		return false, 0, translate(err)
	}
	return cheered, count, nil
}

func (s *socialService) Engagement(ctx context.Context, snapshotID, viewerID string) (*Engagement, error) {
	count, err := s.repos.Social.CountCheers(ctx, snapshotID)
	if err != nil {
		return nil, translate(err)
	}
	cheered, err := s.repos.Social.CheerExists(ctx, snapshotID, viewerID)
	if err != nil {
		return nil, translate(err)
	}
	comments, err := s.repos.Social.ListComments(ctx, snapshotID)
	if err != nil {
		return nil, translate(err)
	}
	if comments == nil {
		comments = []*model.Comment{}
	}
	return &Engagement{CheerCount: count, CheeredByViewer: cheered, Comments: comments}, nil
}
