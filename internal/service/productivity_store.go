package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
)

const defaultHistoryDays = 7

// ProductivityStore 每日网格快照的读写
type ProductivityStore interface {
	// SaveSnapshot 与当天已有快照按小时合并，未提交的小时保持不变
	SaveSnapshot(ctx context.Context, userID, date string, hours model.HourMap) (*model.Snapshot, error)
	GetSnapshot(ctx context.Context, userID, date string) (*model.Snapshot, error)
	// HasStartedToday 当天快照存在且至少有一个小时时为 true
	HasStartedToday(ctx context.Context, userID string, loc *time.Location) (bool, error)
	// History 返回最近 days 天（含今天）已存在的快照，日期降序
	History(ctx context.Context, userID string, days int, loc *time.Location) ([]*model.Snapshot, error)
	// Today 按 loc 取当前日期
	Today(loc *time.Location) string
}

type productivityStore struct {
	repos   *repository.Repositories
	events  event.Publisher
	now     Clock
	maxDays int
}

func NewProductivityStore(repos *repository.Repositories, events event.Publisher, now Clock, historyMaxDays int) ProductivityStore {
	if events == nil {
		events = event.Nop{}
	}
	if now == nil {
		now = time.Now
	}
	if historyMaxDays < 1 {
		historyMaxDays = 31
	}
	return &productivityStore{repos: repos, events: events, now: now, maxDays: historyMaxDays}
}

func (s *productivityStore) Today(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return s.now().In(loc).Format(model.DateLayout)
}

func validDate(date string) error {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return invalid("date must be formatted as YYYY-MM-DD")
	}
	return nil
}

func (s *productivityStore) SaveSnapshot(ctx context.Context, userID, date string, hours model.HourMap) (*model.Snapshot, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if err := hours.Validate(); err != nil {
		return nil, invalid(err.Error())
	}

	snap, err := s.save(ctx, userID, date, hours)
	// 两个首次写入并发时，唯一索引会让后到者失败；重读后按合并路径重试一次
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		snap, err = s.save(ctx, userID, date, hours)
	}
	if err != nil {
		return nil, translate(err)
	}
	s.events.Publish(event.SnapshotSaved{UserID: userID, Date: date, Hours: len(snap.Hours), At: snap.LastUpdated})
	return snap, nil
}

func (s *productivityStore) save(ctx context.Context, userID, date string, hours model.HourMap) (*model.Snapshot, error) {
	var out *model.Snapshot
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// 用户名以目录为准，不信任客户端
		u, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return notFound(err, "user")
		}
		now := s.now()

		existing, err := tx.Snapshots.GetForUpdate(ctx, userID, date)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = &model.Snapshot{
				ID:          model.SnapshotID(userID, date),
				UserID:      userID,
				Date:        date,
				Username:    u.Username,
				Hours:       model.HourMap{}.Merge(hours),
				Visibility:  model.VisibilityFollowers,
				LastUpdated: now,
				CreatedAt:   now,
			}
			if err := tx.Snapshots.Create(ctx, out); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Hours = existing.Hours.Merge(hours)
			existing.Username = u.Username
			existing.LastUpdated = now
			if err := tx.Snapshots.UpdateHours(ctx, existing); err != nil {
				return err
			}
			out = existing
		}
		return tx.Users.Touch(ctx, userID, now)
	})
	return out, err
}

func (s *productivityStore) GetSnapshot(ctx context.Context, userID, date string) (*model.Snapshot, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	snap, err := s.repos.Snapshots.Get(ctx, userID, date)
	if err != nil {
		return nil, notFound(err, "snapshot")
	}
	if snap.Hours == nil {
		snap.Hours = model.HourMap{}
	}
	return snap, nil
}

func (s *productivityStore) HasStartedToday(ctx context.Context, userID string, loc *time.Location) (bool, error) {
	snap, err := s.GetSnapshot(ctx, userID, s.Today(loc))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(snap.Hours) > 0, nil
}

func (s *productivityStore) History(ctx context.Context, userID string, days int, loc *time.Location) ([]*model.Snapshot, error) {
	if days < 1 {
		days = defaultHistoryDays
	}
	if days > s.maxDays {
		days = s.maxDays
	}
	if loc == nil {
		loc = time.UTC
	}
	today := s.now().In(loc)
	dates := make([]string, days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, -i).Format(model.DateLayout)
	}
	snaps, err := s.repos.Snapshots.ListByDates(ctx, userID, dates)
	if err != nil {
		return nil, translate(err)
	}
	return snaps, nil
}
