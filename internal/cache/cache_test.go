package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestProfileCacheLoad(t *testing.T) {
	_, client := newRedis(t)
	pc := NewProfileCache(client, time.Minute)
	ctx := context.Background()

	calls := 0
	loader := func(_ context.Context, ids []string) ([]*model.User, error) {
		calls++
		out := make([]*model.User, 0, len(ids))
		for _, id := range ids {
			if id == "ghost" {
				continue
			}
			out = append(out, &model.User{ID: id, Username: "name-" + id})
		}
		return out, nil
	}

	got, err := pc.Load(ctx, []string{"b", "a", "ghost"}, loader)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].UID)
	assert.Equal(t, "name-a", got[1].Username)
	assert.Equal(t, 1, calls)

	// 第二次命中缓存，只有 ghost 需要回源
	got, err = pc.Load(ctx, []string{"a", "b", "ghost"}, loader)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, calls)
	hits, misses := pc.Counters()
	assert.EqualValues(t, 2, hits)
	assert.EqualValues(t, 4, misses)
}

func TestProfileCacheLoaderError(t *testing.T) {
	_, client := newRedis(t)
	pc := NewProfileCache(client, time.Minute)
	boom := errors.New("db down")
	_, err := pc.Load(context.Background(), []string{"a"}, func(context.Context, []string) ([]*model.User, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestProfileCacheRedisDownFallsBackToLoader(t *testing.T) {
	mr, client := newRedis(t)
	pc := NewProfileCache(client, time.Minute)
	mr.Close()

	got, err := pc.Load(context.Background(), []string{"a"}, func(_ context.Context, ids []string) ([]*model.User, error) {
		return []*model.User{{ID: "a", Username: "alice"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
}

func TestFeedCacheRoundTrip(t *testing.T) {
	_, client := newRedis(t)
	fc := NewFeedCache(client, time.Hour)
	ctx := context.Background()

	_, err := fc.Last(ctx, "alice")
	assert.ErrorIs(t, err, ErrMiss)

	feed := &model.Feed{ViewerID: "alice", Date: "2025-07-05", Entries: []model.FeedEntry{{UserID: "alice", IsMutualFollowing: true}}}
	require.NoError(t, fc.Store(ctx, feed))

	got, err := fc.Last(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2025-07-05", got.Date)
	assert.Len(t, got.Entries, 1)

	require.NoError(t, fc.Drop(ctx, "alice"))
	_, err = fc.Last(ctx, "alice")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInvalidator(t *testing.T) {
	mr, client := newRedis(t)
	pc := NewProfileCache(client, time.Minute)
	fc := NewFeedCache(client, time.Hour)
	inv := NewInvalidator(pc, fc)
	ctx := context.Background()

	_, err := pc.Load(ctx, []string{"alice"}, func(context.Context, []string) ([]*model.User, error) {
		return []*model.User{{ID: "alice", Username: "alice"}}, nil
	})
	require.NoError(t, err)
	require.True(t, mr.Exists("profile:alice"))

	inv.Handle(ctx, event.ProfileChanged{UserID: "alice", OldUsername: "alice", NewUsername: "alice2"})
	assert.False(t, mr.Exists("profile:alice"))

	require.NoError(t, fc.Store(ctx, &model.Feed{ViewerID: "alice"}))
	require.NoError(t, fc.Store(ctx, &model.Feed{ViewerID: "bob"}))
	inv.Handle(ctx, event.BlockChanged{BlockerID: "alice", BlockedID: "bob", Blocked: true})
	assert.False(t, mr.Exists("feed:last:alice"))
	assert.False(t, mr.Exists("feed:last:bob"))
}

func TestInvalidatorUnfollowDropsBothFeeds(t *testing.T) {
	mr, client := newRedis(t)
	fc := NewFeedCache(client, time.Hour)
	inv := NewInvalidator(nil, fc)
	ctx := context.Background()

	alice := &model.Feed{ViewerID: "alice", Entries: []model.FeedEntry{
		{UserID: "alice", IsMutualFollowing: true},
		{UserID: "bob", IsMutualFollowing: true, Hours: model.HourMap{9: {Name: "Study"}}},
	}}
	require.NoError(t, fc.Store(ctx, alice))
	require.NoError(t, fc.Store(ctx, &model.Feed{ViewerID: "bob"}))
	require.NoError(t, fc.Store(ctx, &model.Feed{ViewerID: "carol"}))

	inv.Handle(ctx, event.FollowChanged{FollowerID: "bob", FolloweeID: "alice", Following: false})

	_, err := fc.Last(ctx, "alice")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = fc.Last(ctx, "bob")
	assert.ErrorIs(t, err, ErrMiss)
	assert.True(t, mr.Exists("feed:last:carol"))
}
