package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hourglass/internal/event"
	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/repository"
	"github.com/d60-Lab/hourglass/internal/testutil"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 7, 5, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	repos  *repository.Repositories
	events *event.Recorder
	clock  *fakeClock
	dir    UserDirectory
	rel    RelationshipService
	store  ProductivityStore
	social SocialService
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{repos: repository.New(db), events: &event.Recorder{}, clock: newClock()}
	f.dir = NewUserDirectory(f.repos, nil, f.events, f.clock.Now)
	f.rel = NewRelationshipService(f.repos, f.events, f.clock.Now)
	f.store = NewProductivityStore(f.repos, f.events, f.clock.Now, 31)
	f.social = NewSocialService(f.repos, f.rel, f.clock.Now)
	for _, u := range users {
		_, err := f.dir.CreateUser(context.Background(), u, u+"@example.com", u)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) follow(t *testing.T, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		require.NoError(t, f.rel.Follow(context.Background(), p[0], p[1]))
	}
}

func (f *fixture) save(t *testing.T, user string, hours model.HourMap) *model.Snapshot {
	t.Helper()
	snap, err := f.store.SaveSnapshot(context.Background(), user, f.store.Today(time.UTC), hours)
	require.NoError(t, err)
	return snap
}

func cat(name string) model.ActivityCategory {
	return model.ActivityCategory{Name: name, Color: model.Color{Red: 0.5, Green: 0.5, Blue: 0.5, Opacity: 1}}
}
