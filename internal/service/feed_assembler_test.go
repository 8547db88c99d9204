package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hourglass/internal/model"
)

// flakyStore 对指定用户的快照读取返回错误；down 时整体不可用
type flakyStore struct {
	ProductivityStore
	fail map[string]bool
	down bool
}

func (s flakyStore) HasStartedToday(ctx context.Context, userID string, loc *time.Location) (bool, error) {
	if s.down {
		return false, fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
	}
	return s.ProductivityStore.HasStartedToday(ctx, userID, loc)
}

func (s flakyStore) GetSnapshot(ctx context.Context, userID, date string) (*model.Snapshot, error) {
	if s.fail[userID] {
		return nil, errors.New("connection reset")
	}
	return s.ProductivityStore.GetSnapshot(ctx, userID, date)
}

type memoryLastFeeds struct {
	mu    sync.Mutex
	feeds map[string]*model.Feed
}

func (m *memoryLastFeeds) Store(_ context.Context, feed *model.Feed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.feeds == nil {
		m.feeds = map[string]*model.Feed{}
	}
	cp := *feed
	m.feeds[feed.ViewerID] = &cp
	return nil
}

func (m *memoryLastFeeds) Last(_ context.Context, viewerID string) (*model.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.feeds[viewerID]; ok {
		cp := *f
		cp.Entries = append([]model.FeedEntry(nil), f.Entries...)
		return &cp, nil
	}
	return nil, errors.New("miss")
}

func (f *fixture) assembler(store ProductivityStore, last LastFeedStore) FeedAssembler {
	if store == nil {
		store = f.store
	}
	return NewFeedAssembler(f.dir, f.rel, store, f.social, last, FeedOptions{Concurrency: 2, FetchTimeout: time.Second}, f.clock.Now)
}

func TestFeedPromptsUntilViewerStarts(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})
	f.save(t, "bob", model.HourMap{9: cat("Work")})

	feed, err := f.assembler(nil, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	assert.True(t, feed.PromptStartGrid)
	assert.Empty(t, feed.Entries)
	assert.Equal(t, "2025-07-05", feed.Date)
}

func TestFeedMutualFriends(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})
	f.save(t, "alice", model.HourMap{8: cat("Sleep")})
	f.clock.Advance(time.Minute)
	f.save(t, "bob", model.HourMap{9: cat("Work"), 10: cat("Gym")})

	feed, err := f.assembler(nil, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	assert.False(t, feed.PromptStartGrid)
	require.Len(t, feed.Entries, 2)

	self := feed.Entries[0]
	assert.Equal(t, "alice", self.UserID)
	assert.True(t, self.IsMutualFollowing)
	assert.Len(t, self.Entries, 2)

	bob := feed.Entries[1]
	assert.Equal(t, "bob_2025-07-05", bob.ID)
	assert.True(t, bob.IsMutualFollowing)
	assert.False(t, bob.Redacted)
	require.Len(t, bob.Entries, 4)
	assert.Equal(t, []int{18, 19, 20, 21}, []int{bob.Entries[0].TimeSlot, bob.Entries[1].TimeSlot, bob.Entries[2].TimeSlot, bob.Entries[3].TimeSlot})
	assert.Equal(t, "Gym", bob.Entries[3].Category.Name)
}

func TestFeedRedactsOneWayFollows(t *testing.T) {
	f := newFixture(t, "alice", "carol")
	f.follow(t, [2]string{"alice", "carol"})
	f.save(t, "alice", model.HourMap{8: cat("Sleep")})
	f.save(t, "carol", model.HourMap{9: cat("Work")})

	feed, err := f.assembler(nil, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 2)

	carol := feed.Entries[1]
	assert.Equal(t, "carol", carol.Username)
	assert.False(t, carol.IsMutualFollowing)
	assert.True(t, carol.Redacted)
	assert.True(t, carol.HasSnapshot)
	assert.Empty(t, carol.Entries)
	assert.Nil(t, carol.Hours)
}

func TestFeedOrdersByLastUpdated(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol", "dave")
	for _, u := range []string{"bob", "carol", "dave"} {
		f.follow(t, [2]string{"alice", u}, [2]string{u, "alice"})
	}
	f.save(t, "bob", model.HourMap{1: cat("Sleep")})
	f.clock.Advance(time.Minute)
	f.save(t, "carol", model.HourMap{1: cat("Sleep")})
	f.clock.Advance(time.Minute)
	// 自己最后更新，依然固定在第一位
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})

	feed, err := f.assembler(nil, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	var order []string
	for _, e := range feed.Entries {
		order = append(order, e.UserID)
	}
	assert.Equal(t, []string{"alice", "carol", "bob", "dave"}, order)
	assert.False(t, feed.Entries[3].HasSnapshot)
	assert.NotNil(t, feed.Entries[3].Entries)
}

func TestFeedSkipsFailedFetches(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	for _, u := range []string{"bob", "carol"} {
		f.follow(t, [2]string{"alice", u}, [2]string{u, "alice"})
		f.save(t, u, model.HourMap{1: cat("Sleep")})
	}
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})

	store := flakyStore{ProductivityStore: f.store, fail: map[string]bool{"bob": true}}
	feed, err := f.assembler(store, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 2)
	assert.Equal(t, "carol", feed.Entries[1].UserID)

	// 自己的快照读取成功说明存储可达，其余全部失败也只返回自己的条目
	store.fail["carol"] = true
	feed, err = f.assembler(store, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "alice", feed.Entries[0].UserID)
}

func TestFeedSingleFollowedFailureKeepsFeed(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})
	f.save(t, "bob", model.HourMap{2: cat("Study")})

	store := flakyStore{ProductivityStore: f.store, fail: map[string]bool{"bob": true}}
	feed, err := f.assembler(store, nil).AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "alice", feed.Entries[0].UserID)
	assert.False(t, feed.Stale)
}

func TestFeedStaleCopyHidesEntriesNoLongerMutual(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	ctx := context.Background()
	for _, u := range []string{"bob", "carol"} {
		f.follow(t, [2]string{"alice", u}, [2]string{u, "alice"})
		f.save(t, u, model.HourMap{9: cat("Study")})
	}
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})

	last := &memoryLastFeeds{}
	_, err := f.assembler(nil, last).AssembleFeed(ctx, "alice", time.UTC)
	require.NoError(t, err)

	require.NoError(t, f.rel.Unfollow(ctx, "bob", "alice"))

	store := flakyStore{ProductivityStore: f.store, down: true}
	stale, err := f.assembler(store, last).AssembleFeed(ctx, "alice", time.UTC)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotNil(t, stale)
	assert.True(t, stale.Stale)

	byUser := map[string]model.FeedEntry{}
	for _, e := range stale.Entries {
		byUser[e.UserID] = e
	}
	require.Len(t, byUser, 3)
	assert.False(t, byUser["bob"].IsMutualFollowing)
	assert.True(t, byUser["bob"].Redacted)
	assert.Nil(t, byUser["bob"].Hours)
	assert.True(t, byUser["carol"].IsMutualFollowing)
	assert.NotNil(t, byUser["carol"].Hours)
	assert.NotNil(t, byUser["alice"].Hours)
}

func TestFeedServesStaleCopyWhenStoreIsDown(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})
	f.save(t, "bob", model.HourMap{2: cat("Sleep")})

	last := &memoryLastFeeds{}
	a := f.assembler(nil, last)
	fresh, err := a.AssembleFeed(context.Background(), "alice", time.UTC)
	require.NoError(t, err)
	require.False(t, fresh.Stale)

	sqlDB, err := f.repos.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	stale, err := a.AssembleFeed(context.Background(), "alice", time.UTC)
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.NotNil(t, stale)
	assert.True(t, stale.Stale)
	assert.Len(t, stale.Entries, len(fresh.Entries))

	_, err = a.AssembleFeed(context.Background(), "bob", time.UTC)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestFeedIncludesEngagement(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})
	f.save(t, "alice", model.HourMap{1: cat("Sleep")})
	f.save(t, "bob", model.HourMap{2: cat("Sleep")})

	_, _, err := f.social.ToggleCheer(ctx, "alice", "bob", "2025-07-05")
	require.NoError(t, err)
	_, err = f.social.AddComment(ctx, "alice", "bob", "2025-07-05", "nice streak")
	require.NoError(t, err)

	feed, err := f.assembler(nil, nil).AssembleFeed(ctx, "alice", time.UTC)
	require.NoError(t, err)
	bob := feed.Entries[1]
	assert.EqualValues(t, 1, bob.CheerCount)
	assert.True(t, bob.CheeredByViewer)
	require.Len(t, bob.Comments, 1)
	assert.Equal(t, "alice", bob.Comments[0].AuthorUsername)

	_, err = f.assembler(nil, nil).AssembleFeed(ctx, "ghost", time.UTC)
	assert.ErrorIs(t, err, ErrNotFound)
}
