package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/hourglass/internal/model"
	"github.com/d60-Lab/hourglass/internal/testutil"
)

func TestFollowAndFanIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db, "alice", "bob")
	repos := New(db)
	ctx := context.Background()

	require.NoError(t, repos.Follows.Create(ctx, "alice", "bob"))
	require.NoError(t, repos.Follows.Create(ctx, "alice", "bob"))
	require.NoError(t, repos.Fans.Create(ctx, "bob", "alice"))
	require.NoError(t, repos.Fans.Create(ctx, "bob", "alice"))

	ids, err := repos.Follows.FolloweeIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)

	fans, err := repos.Fans.FanIDs(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fans)

	ok, err := repos.Follows.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Follows.Exists(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTransactionRollback(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db, "alice", "bob")
	repos := New(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Follows.Create(ctx, "alice", "bob"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := repos.Follows.Exists(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, ok, "follow must not survive a rolled back transaction")
}

func TestBlockExistsEither(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db, "alice", "bob", "carol")
	repos := New(db)
	ctx := context.Background()

	require.NoError(t, repos.Blocks.Create(ctx, "bob", "alice"))

	either, err := repos.Blocks.ExistsEither(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, either)

	either, err = repos.Blocks.ExistsEither(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.False(t, either)

	require.NoError(t, repos.Blocks.Delete(ctx, "bob", "alice"))
	either, err = repos.Blocks.ExistsEither(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, either)
}

func TestUsernameUnique(t *testing.T) {
	db := testutil.NewDB(t)
	repos := New(db)
	ctx := context.Background()

	require.NoError(t, repos.Users.Create(ctx, &model.User{ID: "u1", Username: "Alice"}))
	// 区分大小写
	require.NoError(t, repos.Users.Create(ctx, &model.User{ID: "u2", Username: "alice"}))
	err := repos.Users.Create(ctx, &model.User{ID: "u3", Username: "Alice"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	u, err := repos.Users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	_, err = repos.Users.GetByUsername(ctx, "ALICE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSnapshotHoursRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUsers(t, db, "u1")
	repos := New(db)
	ctx := context.Background()

	study := model.ActivityCategory{Name: "Study", Color: model.Color{Blue: 1, Opacity: 1}}
	now := time.Now().UTC().Truncate(time.Second)
	s := &model.Snapshot{
		ID: model.SnapshotID("u1", "2025-07-05"), UserID: "u1", Date: "2025-07-05",
		Hours: model.HourMap{9: study}, Visibility: model.VisibilityFollowers, LastUpdated: now,
	}
	require.NoError(t, repos.Snapshots.Create(ctx, s))

	s.Hours = s.Hours.Merge(model.HourMap{10: study})
	require.NoError(t, repos.Snapshots.UpdateHours(ctx, s))

	got, err := repos.Snapshots.Get(ctx, "u1", "2025-07-05")
	require.NoError(t, err)
	assert.Equal(t, model.HourMap{9: study, 10: study}, got.Hours)

	list, err := repos.Snapshots.ListByDates(ctx, "u1", []string{"2025-07-05", "2025-07-04"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCheers(t *testing.T) {
	db := testutil.NewDB(t)
	repos := New(db)
	ctx := context.Background()

	require.NoError(t, repos.Social.CreateCheer(ctx, "s1", "alice"))
	assert.Error(t, repos.Social.CreateCheer(ctx, "s1", "alice"))
	require.NoError(t, repos.Social.CreateCheer(ctx, "s1", "bob"))

	n, err := repos.Social.CountCheers(ctx, "s1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, repos.Social.DeleteCheer(ctx, "s1", "alice"))
	ok, err := repos.Social.CheerExists(ctx, "s1", "alice")
	require.NoError(t, err)
	assert.False(t, ok)
}

func BenchmarkFollowWrite_And_FanRedundancy(b *testing.B) {
	db := testutil.NewDB(b)
	repos := New(db)
	ctx := context.Background()

	users := make([]model.User, 1000)
	for i := range users {
		id := fmt.Sprintf("u%04d", i)
		users[i] = model.User{ID: id, Username: id, Email: id + "@example.com"}
	}
	if err := db.CreateInBatches(&users, 200).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rnd := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rnd.Intn(len(users))].ID
		to := users[rnd.Intn(len(users))].ID
		if from == to {
			continue
		}
		_ = repos.Transaction(ctx, func(tx *Repositories) error {
			if err := tx.Follows.Create(ctx, from, to); err != nil {
				return err
			}
			return tx.Fans.Create(ctx, to, from)
		})
	}
}

func BenchmarkQueryFansAndFollowing(b *testing.B) {
	db := testutil.NewDB(b)
	repos := New(db)
	ctx := context.Background()

	// 构造：u0 有 N 个粉丝，同时 u0 也关注这 N 个用户
	const N = 2000
	testutil.SeedUsers(b, db, "u0")
	for i := 1; i <= N; i++ {
		uid := fmt.Sprintf("u%v", i)
		testutil.SeedUsers(b, db, uid)
		_ = repos.Follows.Create(ctx, uid, "u0")
		_ = repos.Fans.Create(ctx, "u0", uid)
		_ = repos.Follows.Create(ctx, "u0", uid)
		_ = repos.Fans.Create(ctx, uid, "u0")
	}

	b.ResetTimer()
	b.Run("ListFans", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repos.Fans.ListFans(ctx, "u0", 0, 50)
		}
	})

	b.Run("FolloweeIDs", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = repos.Follows.FolloweeIDs(ctx, "u0")
		}
	})
}
