package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/hourglass/internal/model"
)

// ProfileLoader loads users missing from the cache from the primary store.
type ProfileLoader func(ctx context.Context, ids []string) ([]*model.User, error)

// ProfileCache caches the identity part of a user (uid, username, image) used by feed and list pages.
// Relation sets are never cached; they are always read from the store.
type ProfileCache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func NewProfileCache(client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(id string) string { return fmt.Sprintf("profile:%s", id) }

// Load returns summaries in the order of ids; ids unknown to both cache and store are skipped.
// A redis failure degrades to a store read instead of failing the call.
func (c *ProfileCache) Load(ctx context.Context, ids []string, load ProfileLoader) ([]model.UserSummary, error) {
	if len(ids) == 0 {
		return []model.UserSummary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}

	cached := make(map[string]model.UserSummary, len(ids))
	if vals, err := c.client.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			if v == nil {
				continue
			}
			if str, ok := v.(string); ok {
				var snap model.UserSummary
				if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
					cached[ids[i]] = snap
				}
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}
	c.hits.Add(int64(len(ids) - len(missing)))
	c.misses.Add(int64(len(missing)))

	if len(missing) > 0 {
		users, err := load(ctx, missing)
		if err != nil {
			return nil, err
		}
		pipe := c.client.Pipeline()
		for _, u := range users {
			snap := u.Summary()
			cached[u.ID] = snap
			if payload, err := json.Marshal(snap); err == nil {
				pipe.Set(ctx, profileKey(u.ID), payload, c.ttl)
			}
		}
		_, _ = pipe.Exec(ctx)
	}

	result := make([]model.UserSummary, 0, len(ids))
	for _, id := range ids {
		if snap, ok := cached[id]; ok {
			result = append(result, snap)
		}
	}
	return result, nil
}

func (c *ProfileCache) Invalidate(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}

// Counters reports cache hits and misses since start.
func (c *ProfileCache) Counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
