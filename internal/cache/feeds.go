package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/hourglass/internal/model"
)

// ErrMiss is returned when no feed has been stored for a viewer.
var ErrMiss = errors.New("cache miss")

// FeedCache keeps the last successfully assembled feed per viewer so that a store outage
// can still serve something.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	return &FeedCache{client: client, ttl: ttl}
}

func feedKey(viewerID string) string { return fmt.Sprintf("feed:last:%s", viewerID) }

func (c *FeedCache) Store(ctx context.Context, feed *model.Feed) error {
	payload, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, feedKey(feed.ViewerID), payload, c.ttl).Err()
}

func (c *FeedCache) Last(ctx context.Context, viewerID string) (*model.Feed, error) {
	data, err := c.client.Get(ctx, feedKey(viewerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var feed model.Feed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *FeedCache) Drop(ctx context.Context, viewerIDs ...string) error {
	if len(viewerIDs) == 0 {
		return nil
	}
	keys := make([]string, len(viewerIDs))
	for i, id := range viewerIDs {
		keys[i] = feedKey(id)
	}
	return c.client.Del(ctx, keys...).Err()
}
