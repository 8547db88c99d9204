package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/pkg/logger"
)

// LastFeedStore 保存每个查看者最近一次成功组装的动态流（见 internal/cache.FeedCache）
type LastFeedStore interface {
	Store(ctx context.Context, feed *model.Feed) error
	Last(ctx context.Context, viewerID string) (*model.Feed, error)
}

// FeedAssembler 读时组装动态流
type FeedAssembler interface {
	// AssembleFeed 查看者自己的条目固定在第一位（客户端把它作为"今天"的编辑入口），
	// 其余条目按 lastUpdated 降序排序。
	// 存储整体不可用时返回 ErrStoreUnavailable；若有上一次的结果，同时返回它并标记 Stale，
	// 其中无法重新确认互关的条目会被隐藏
	AssembleFeed(ctx context.Context, viewerID string, loc *time.Location) (*model.Feed, error)
}

type FeedOptions struct {
	Concurrency  int
	FetchTimeout time.Duration
}

type feedAssembler struct {
	dir    UserDirectory
	rel    RelationshipService
	store  ProductivityStore
	social SocialService
	last   LastFeedStore
	opts   FeedOptions
	now    Clock
	tracer trace.Tracer
}

// NewFeedAssembler last 可为 nil
func NewFeedAssembler(dir UserDirectory, rel RelationshipService, store ProductivityStore, social SocialService,
	last LastFeedStore, opts FeedOptions, now Clock) FeedAssembler {
	if opts.Concurrency < 1 {
		opts.Concurrency = 8
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 3 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &feedAssembler{
		dir: dir, rel: rel, store: store, social: social, last: last,
		opts: opts, now: now, tracer: otel.Tracer("hourglass/feed"),
	}
}

func (a *feedAssembler) AssembleFeed(ctx context.Context, viewerID string, loc *time.Location) (*model.Feed, error) {
	ctx, span := a.tracer.Start(ctx, "feed.assemble", trace.WithAttributes(attribute.String("viewer.id", viewerID)))
	defer span.End()

	feed, err := a.assemble(ctx, viewerID, loc)
	if err == nil {
		span.SetAttributes(attribute.Int("feed.entries", len(feed.Entries)))
		if a.last != nil && !feed.PromptStartGrid {
			if serr := a.last.Store(ctx, feed); serr != nil {
				logger.Warn("store last feed failed", zap.String("viewer", viewerID), zap.Error(serr))
			}
		}
		return feed, nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if !errors.Is(err, ErrStoreUnavailable) {
		return nil, err
	}
	logger.Error("feed assembly failed", zap.String("viewer", viewerID), zap.Error(err))
	if a.last != nil {
		if prev, lerr := a.last.Last(ctx, viewerID); lerr == nil {
			a.revalidate(ctx, prev)
			prev.Stale = true
			return prev, err
		}
	}
	return nil, err
}

func (a *feedAssembler) assemble(ctx context.Context, viewerID string, loc *time.Location) (*model.Feed, error) {
	viewer, err := a.dir.GetUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	date := a.store.Today(loc)
	feed := &model.Feed{ViewerID: viewerID, Date: date, Entries: []model.FeedEntry{}, GeneratedAt: a.now()}

	started, err := a.store.HasStartedToday(ctx, viewerID, loc)
	if err != nil {
		return nil, err
	}
	// 自己还没开始填写时不展示好友数据
	if !started {
		feed.PromptStartGrid = true
		return feed, nil
	}

	self, err := a.entry(ctx, viewerID, viewer.Summary(), date, true)
	if err != nil {
		return nil, err
	}

	profiles, err := a.dir.GetProfiles(ctx, viewer.Following)
	if err != nil {
		return nil, err
	}
	others, err := a.fanOut(ctx, viewerID, profiles, date)
	if err != nil {
		return nil, err
	}

	// 自己固定第一；其余按最近更新时间降序，相同时保持关注顺序
	sort.SliceStable(others, func(i, j int) bool {
		return others[i].LastUpdated.After(others[j].LastUpdated)
	})
	feed.Entries = append(feed.Entries, *self)
	for _, e := range others {
		if !e.IsMutualFollowing {
			e.Redact()
		}
		feed.Entries = append(feed.Entries, *e)
	}
	return feed, nil
}

// fanOut 并发拉取被关注者当天的条目，单个失败只跳过该条目。
// 调用前查看者自己的快照已读取成功，存储可达，因此这里不会升级为 ErrStoreUnavailable
func (a *feedAssembler) fanOut(ctx context.Context, viewerID string, profiles []model.UserSummary, date string) ([]*model.FeedEntry, error) {
	results := make([]*model.FeedEntry, len(profiles))
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.opts.Concurrency)
	for i, p := range profiles {
		wg.Add(1)
		go func(i int, p model.UserSummary) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			fctx, cancel := context.WithTimeout(ctx, a.opts.FetchTimeout)
			defer cancel()
			e, err := a.entry(fctx, viewerID, p, date, false)
			if err != nil {
				logger.Warn("skip feed entry", zap.String("viewer", viewerID), zap.String("author", p.UID), zap.Error(err))
				return
			}
			results[i] = e
		}(i, p)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]*model.FeedEntry, 0, len(results))
	for _, e := range results {
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

// revalidate 重新确认旧动态流中每个互关条目的互关关系；无法确认时一律隐藏
func (a *feedAssembler) revalidate(ctx context.Context, feed *model.Feed) {
	for i := range feed.Entries {
		e := &feed.Entries[i]
		if e.UserID == feed.ViewerID || !e.IsMutualFollowing {
			continue
		}
		mutual, err := a.rel.IsMutuallyFollowing(ctx, feed.ViewerID, e.UserID)
		if err == nil && mutual {
			continue
		}
		e.IsMutualFollowing = false
		e.Redact()
	}
}

func (a *feedAssembler) entry(ctx context.Context, viewerID string, author model.UserSummary, date string, self bool) (*model.FeedEntry, error) {
	e := &model.FeedEntry{
		ID:              model.SnapshotID(author.UID, date),
		UserID:          author.UID,
		Username:        author.Username,
		ProfileImageURL: author.ProfileImageURL,
		Date:            date,
		Entries:         []model.TimeSlot{},
		Comments:        []*model.Comment{},
	}
	if self {
		e.IsMutualFollowing = true
	} else {
		mutual, err := a.rel.IsMutuallyFollowing(ctx, viewerID, author.UID)
		if err != nil {
			return nil, err
		}
		e.IsMutualFollowing = mutual
	}

	snap, err := a.store.GetSnapshot(ctx, author.UID, date)
	switch {
	case errors.Is(err, ErrNotFound):
		return e, nil
	case err != nil:
		return nil, err
	}
	e.HasSnapshot = true
	e.LastUpdated = snap.LastUpdated
	if !e.IsMutualFollowing {
		return e, nil
	}
	e.Hours = snap.Hours
	e.Entries = snap.Hours.Slots()

	eng, err := a.social.Engagement(ctx, e.ID, viewerID)
	if err != nil {
		return nil, err
	}
	e.CheerCount = eng.CheerCount
	e.CheeredByViewer = eng.CheeredByViewer
	e.Comments = eng.Comments
	return e, nil
}
