package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/pkg/logger"
)

// Invalidator subscribes to the event bus and drops cache entries made stale by writes.
type Invalidator struct {
	profiles *ProfileCache
	feeds    *FeedCache
}

func NewInvalidator(profiles *ProfileCache, feeds *FeedCache) *Invalidator {
	return &Invalidator{profiles: profiles, feeds: feeds}
}

func (i *Invalidator) Handle(ctx context.Context, e event.Event) {
	var err error
	switch ev := e.(type) {
	case event.ProfileChanged:
		if i.profiles != nil {
			err = i.profiles.Invalidate(ctx, ev.UserID)
		}
	case event.BlockChanged:
		// a stale feed must never resurface content across a new block
		if ev.Blocked && i.feeds != nil {
			err = i.feeds.Drop(ctx, ev.BlockerID, ev.BlockedID)
		}
	case event.FollowChanged:
		// both sides lose mutual status on unfollow
		if !ev.Following && i.feeds != nil {
			err = i.feeds.Drop(ctx, ev.FollowerID, ev.FolloweeID)
		}
	}
	if err != nil {
		logger.Warn("cache invalidation failed", zap.String("event", e.Name()), zap.Error(err))
	}
}
