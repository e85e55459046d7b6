package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// GraphCache keeps follower/following listing snapshots in Redis so the hot
// listing reads skip the document store. Entries are invalidated on every
// graph write touching the user; a nil *GraphCache disables caching.
type GraphCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGraphCache builds a GraphCache with the given TTL.
func NewGraphCache(client *redis.Client, ttl time.Duration) *GraphCache {
	return &GraphCache{client: client, ttl: ttl}
}

func followersKey(userID int64) string { return fmt.Sprintf("followers:%d", userID) }
func followingKey(userID int64) string { return fmt.Sprintf("following:%d", userID) }

// GetFollowers returns the cached follower listing, or ok=false on a miss.
func (c *GraphCache) GetFollowers(ctx context.Context, userID int64) ([]models.UserSummary, bool) {
	return c.get(ctx, followersKey(userID))
}

// SetFollowers stores a follower listing snapshot.
func (c *GraphCache) SetFollowers(ctx context.Context, userID int64, users []models.UserSummary) {
	c.set(ctx, followersKey(userID), users)
}

// GetFollowing returns the cached following listing, or ok=false on a miss.
func (c *GraphCache) GetFollowing(ctx context.Context, userID int64) ([]models.UserSummary, bool) {
	return c.get(ctx, followingKey(userID))
}

// SetFollowing stores a following listing snapshot.
func (c *GraphCache) SetFollowing(ctx context.Context, userID int64, users []models.UserSummary) {
	c.set(ctx, followingKey(userID), users)
}

// Invalidate drops both listing snapshots for the given users. Called after
// every follow/unfollow so a stale pair is never served past the write.
func (c *GraphCache) Invalidate(ctx context.Context, userIDs ...int64) {
	if c == nil || c.client == nil {
		return
	}
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		keys = append(keys, followersKey(id), followingKey(id))
	}
	_ = c.client.Del(ctx, keys...).Err()
}

func (c *GraphCache) get(ctx context.Context, key string) ([]models.UserSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var out []models.UserSummary
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *GraphCache) set(ctx context.Context, key string, users []models.UserSummary) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, payload, c.ttl).Err()
}
