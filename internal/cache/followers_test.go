package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *GraphCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewGraphCache(client, time.Minute)
}

func TestGraphCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.GetFollowers(ctx, 1)
	assert.False(t, ok)

	followers := []models.UserSummary{{UserID: 2, Name: "Bob", Username: "bob"}}
	c.SetFollowers(ctx, 1, followers)

	got, ok := c.GetFollowers(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, followers, got)

	following := []models.UserSummary{{UserID: 3, Name: "Carol", Username: "carol"}}
	c.SetFollowing(ctx, 1, following)
	got, ok = c.GetFollowing(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, following, got)
}

func TestGraphCacheInvalidate(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	c.SetFollowers(ctx, 1, []models.UserSummary{{UserID: 2, Username: "bob"}})
	c.SetFollowing(ctx, 2, []models.UserSummary{{UserID: 1, Username: "alice"}})

	c.Invalidate(ctx, 1, 2)

	_, ok := c.GetFollowers(ctx, 1)
	assert.False(t, ok)
	_, ok = c.GetFollowing(ctx, 2)
	assert.False(t, ok)
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *GraphCache
	ctx := context.Background()

	_, ok := c.GetFollowers(ctx, 1)
	assert.False(t, ok)
	c.SetFollowers(ctx, 1, nil)
	c.Invalidate(ctx, 1)
}
