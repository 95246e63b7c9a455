package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/testutil"
)

func TestFollowRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	u0 := testutil.SeedAccount(t, db, "u0")
	u1 := testutil.SeedAccount(t, db, "u1")
	u2 := testutil.SeedAccount(t, db, "u2")

	require.NoError(t, repo.Create(ctx, u0.ID, u1.ID))
	// 重复关注幂等
	require.NoError(t, repo.Create(ctx, u0.ID, u1.ID))
	require.NoError(t, repo.Create(ctx, u0.ID, u2.ID))
	require.NoError(t, repo.Create(ctx, u2.ID, u1.ID))

	ok, err := repo.Exists(ctx, u0.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	following, total, err := repo.ListFollowing(ctx, u0.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, following, 2)

	followers, total, err := repo.ListFollowers(ctx, u1.ID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, followers, 1)

	among, err := repo.FollowedAmong(ctx, u2.ID, []string{u0.ID, u1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{u1.ID}, among)

	require.NoError(t, repo.Delete(ctx, u0.ID, u1.ID))
	ok, err = repo.Exists(ctx, u0.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlockRepository(db)
	ctx := context.Background()
	u0 := testutil.SeedAccount(t, db, "u0")
	u1 := testutil.SeedAccount(t, db, "u1")
	u2 := testutil.SeedAccount(t, db, "u2")

	require.NoError(t, repo.Create(ctx, u0.ID, u1.ID))
	require.NoError(t, repo.Create(ctx, u0.ID, u1.ID))

	blocked, err := repo.BlockedAmong(ctx, u0.ID, []string{u1.ID, u2.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{u1.ID}, blocked)

	require.NoError(t, repo.Delete(ctx, u0.ID, u1.ID))
	blocked, err = repo.BlockedAmong(ctx, u0.ID, []string{u1.ID, u2.ID})
	require.NoError(t, err)
	assert.Empty(t, blocked)
}
