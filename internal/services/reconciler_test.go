package services

import (
	"context"
	"testing"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerRepairsOneDirectionalFollow(t *testing.T) {
	users := newMemUserRepo()
	audit := newTestAuditRepo(t)
	ctx := context.Background()
	seedUser(t, users, 1, "alice")
	seedUser(t, users, 2, "bob")

	// Simulate a crash after the follower-side write: alice follows bob but
	// bob never gained the follower, and the journal row is stuck in forward.
	require.NoError(t, users.AddFollowing(ctx, 1, 2))
	_, err := audit.RecordForward(ctx, models.OpFollow, 1, 2)
	require.NoError(t, err)

	r := &Reconciler{users: users, audit: audit}
	require.NoError(t, r.RunOnce(ctx))

	bob, err := users.GetUserByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, bob.Followers)

	incomplete, err := audit.ListIncomplete(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, incomplete)
}

func TestReconcilerRepairsOneDirectionalUnfollow(t *testing.T) {
	users := newMemUserRepo()
	audit := newTestAuditRepo(t)
	ctx := context.Background()
	seedUser(t, users, 1, "alice")
	seedUser(t, users, 2, "bob")

	// Crash after removing the forward edge: bob still lists alice.
	require.NoError(t, users.AddFollower(ctx, 2, 1))
	_, err := audit.RecordForward(ctx, models.OpUnfollow, 1, 2)
	require.NoError(t, err)

	r := &Reconciler{users: users, audit: audit}
	require.NoError(t, r.RunOnce(ctx))

	bob, err := users.GetUserByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, bob.Followers)
}

func TestReconcilerSkipsReversedFollow(t *testing.T) {
	users := newMemUserRepo()
	audit := newTestAuditRepo(t)
	ctx := context.Background()
	seedUser(t, users, 1, "alice")
	seedUser(t, users, 2, "bob")

	// The follow edge was since removed; replaying it would resurrect the
	// relationship.
	_, err := audit.RecordForward(ctx, models.OpFollow, 1, 2)
	require.NoError(t, err)

	r := &Reconciler{users: users, audit: audit}
	require.NoError(t, r.RunOnce(ctx))

	bob, err := users.GetUserByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, bob.Followers)

	incomplete, err := audit.ListIncomplete(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, incomplete)
}
