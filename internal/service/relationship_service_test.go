package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/hourglass/internal/event"
)

func TestFollowKeepsBothSidesInSync(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	require.NoError(t, f.rel.Follow(ctx, "alice", "bob"))
	// 重复关注是幂等的
	require.NoError(t, f.rel.Follow(ctx, "alice", "bob"))

	alice, err := f.dir.GetUser(ctx, "alice")
	require.NoError(t, err)
	bob, err := f.dir.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, alice.Following)
	assert.Equal(t, []string{"alice"}, bob.Followers)
	assert.Empty(t, bob.Following)

	require.NoError(t, f.rel.Unfollow(ctx, "alice", "bob"))
	alice, _ = f.dir.GetUser(ctx, "alice")
	bob, _ = f.dir.GetUser(ctx, "bob")
	assert.Empty(t, alice.Following)
	assert.Empty(t, bob.Followers)

	evs := f.events.Events()
	require.Len(t, evs, 3)
	assert.Equal(t, event.FollowChanged{FollowerID: "alice", FolloweeID: "bob", Following: false, At: f.clock.Now()}, evs[2])
}

func TestFollowRejectsSelfAndUnknown(t *testing.T) {
	f := newFixture(t, "alice")
	ctx := context.Background()

	err := f.rel.Follow(ctx, "alice", "alice")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, f.rel.Block(ctx, "alice", "alice"), ErrForbidden)

	err = f.rel.Follow(ctx, "alice", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.events.Events())
}

func TestBlockSeversFollowsBothWays(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})

	mutual, err := f.rel.IsMutuallyFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	require.True(t, mutual)

	require.NoError(t, f.rel.Block(ctx, "alice", "bob"))

	for _, id := range []string{"alice", "bob"} {
		u, err := f.dir.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, u.Following, id)
		assert.Empty(t, u.Followers, id)
	}
	alice, _ := f.dir.GetUser(ctx, "alice")
	assert.Equal(t, []string{"bob"}, alice.Blocked)

	blocked, err := f.rel.IsBlockedEitherDirection(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	assert.ErrorIs(t, f.rel.Follow(ctx, "bob", "alice"), ErrForbidden)
	assert.ErrorIs(t, f.rel.Follow(ctx, "alice", "bob"), ErrForbidden)

	// 解除拉黑不恢复关注
	require.NoError(t, f.rel.Unblock(ctx, "alice", "bob"))
	mutual, err = f.rel.IsMutuallyFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, mutual)
	require.NoError(t, f.rel.Follow(ctx, "bob", "alice"))
}

func TestSearchVisibleUserHidesBlockedUsers(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol")
	ctx := context.Background()
	require.NoError(t, f.rel.Block(ctx, "bob", "alice"))

	_, blockedErr := f.rel.SearchVisibleUser(ctx, "alice", "bob")
	_, missingErr := f.rel.SearchVisibleUser(ctx, "alice", "nobody")
	require.ErrorIs(t, blockedErr, ErrNotFound)
	require.ErrorIs(t, missingErr, ErrNotFound)
	assert.Equal(t, missingErr.Error(), blockedErr.Error())

	_, err := f.rel.SearchVisibleUser(ctx, "", "bob")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	u, err := f.rel.SearchVisibleUser(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", u.ID)
}

func TestListRelationsPaged(t *testing.T) {
	f := newFixture(t, "alice", "bob", "carol", "dave")
	ctx := context.Background()
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"alice", "carol"}, [2]string{"alice", "dave"}, [2]string{"bob", "alice"})
	require.NoError(t, f.rel.Block(ctx, "carol", "dave"))

	page1, err := f.rel.ListFollowing(ctx, "alice", 1, 2)
	require.NoError(t, err)
	page2, err := f.rel.ListFollowing(ctx, "alice", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Len(t, page2, 1)
	assert.ElementsMatch(t, []string{"bob", "carol", "dave"}, append(page1, page2...))

	fans, err := f.rel.ListFans(ctx, "alice", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, fans)

	blocked, err := f.rel.ListBlocked(ctx, "carol", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"dave"}, blocked)

	_, err = f.rel.ListFollowing(ctx, "ghost", 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()
	f.follow(t, [2]string{"alice", "bob"}, [2]string{"bob", "alice"})

	require.NoError(t, f.rel.Unfollow(ctx, "alice", "bob"))
	alice1, err := f.dir.GetUser(ctx, "alice")
	require.NoError(t, err)
	bob1, err := f.dir.GetUser(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, f.rel.Unfollow(ctx, "alice", "bob"))
	alice2, err := f.dir.GetUser(ctx, "alice")
	require.NoError(t, err)
	bob2, err := f.dir.GetUser(ctx, "bob")
	require.NoError(t, err)

	assert.Equal(t, alice1.Following, alice2.Following)
	assert.Equal(t, alice1.Followers, alice2.Followers)
	assert.Equal(t, bob1.Following, bob2.Following)
	assert.Equal(t, bob1.Followers, bob2.Followers)
	assert.Empty(t, alice2.Following)
	assert.Equal(t, []string{"alice"}, bob2.Following)
	assert.Equal(t, []string{"bob"}, alice2.Followers)
}

func TestConcurrentFollowAndBlockStaySymmetric(t *testing.T) {
	f := newFixture(t, "alice", "bob")
	ctx := context.Background()

	ops := []func() error{
		func() error { return f.rel.Follow(ctx, "alice", "bob") },
		func() error { return f.rel.Follow(ctx, "bob", "alice") },
		func() error { return f.rel.Block(ctx, "alice", "bob") },
		func() error { return f.rel.Unfollow(ctx, "bob", "alice") },
		func() error { return f.rel.Unblock(ctx, "alice", "bob") },
	}
	const rounds = 20
	errs := make(chan error, rounds*len(ops))
	var wg sync.WaitGroup
	for r := 0; r < rounds; r++ {
		for _, op := range ops {
			wg.Add(1)
			go func(op func() error) {
				defer wg.Done()
				// 被拉黑时关注会被拒绝，这是预期结果
				if err := op(); err != nil && !errors.Is(err, ErrForbidden) {
					errs <- err
				}
			}(op)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	db := f.repos.DB()
	var orphanFollows, orphanFans, blockedFollows int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM follows f LEFT JOIN fans n
		ON n.user_id = f.followee_id AND n.fan_id = f.follower_id WHERE n.id IS NULL`).Scan(&orphanFollows).Error)
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM fans n LEFT JOIN follows f
		ON f.follower_id = n.fan_id AND f.followee_id = n.user_id WHERE f.id IS NULL`).Scan(&orphanFans).Error)
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM follows f JOIN blocks b
		ON (b.blocker_id = f.follower_id AND b.blocked_id = f.followee_id)
		OR (b.blocker_id = f.followee_id AND b.blocked_id = f.follower_id)`).Scan(&blockedFollows).Error)
	assert.Zero(t, orphanFollows)
	assert.Zero(t, orphanFans)
	assert.Zero(t, blockedFollows)
}
