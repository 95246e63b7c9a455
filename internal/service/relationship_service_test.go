package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/testutil"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

func TestRelationshipService_FollowRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRelationshipService(f.accounts, f.follows, f.blocks)
	u0 := testutil.SeedAccount(t, f.db, "u0")
	u1 := testutil.SeedAccount(t, f.db, "u1")

	err := svc.Follow(ctx, u0.ID, u0.ID)
	assert.True(t, errcode.Is(err, errcode.KindValidation))
	err = svc.Follow(ctx, u0.ID, "missing")
	assert.True(t, errcode.Is(err, errcode.KindNotFound))

	require.NoError(t, svc.Follow(ctx, u0.ID, u1.ID))
	require.NoError(t, svc.Follow(ctx, u0.ID, u1.ID))
	ok, err := f.follows.Exists(ctx, u0.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Unfollow(ctx, u0.ID, u1.ID))
	ok, err = f.follows.Exists(ctx, u0.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRelationshipService_ListsMarkViewerFollowing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRelationshipService(f.accounts, f.follows, f.blocks)
	viewer := testutil.SeedAccount(t, f.db, "viewer")
	star := testutil.SeedAccount(t, f.db, "star")
	fan1 := testutil.SeedAccount(t, f.db, "fan1")
	fan2 := testutil.SeedAccount(t, f.db, "fan2")

	require.NoError(t, svc.Follow(ctx, fan1.ID, star.ID))
	require.NoError(t, svc.Follow(ctx, fan2.ID, star.ID))
	require.NoError(t, svc.Follow(ctx, viewer.ID, fan1.ID))

	page, err := svc.ListFollowers(ctx, viewer.ID, star.ID, PageQuery{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalPage)
	require.Len(t, page.Users, 2)
	marks := map[string]bool{}
	for _, u := range page.Users {
		require.NotNil(t, u.IsMyFollowing)
		marks[u.Idx] = *u.IsMyFollowing
	}
	assert.Equal(t, map[string]bool{fan1.ID: true, fan2.ID: false}, marks)

	page, err = svc.ListFollowing(ctx, "", fan1.ID, PageQuery{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, star.ID, page.Users[0].Idx)
	assert.Nil(t, page.Users[0].IsMyFollowing)

	_, err = svc.ListFollowing(ctx, "", "missing", PageQuery{Page: 1, Size: 10})
	assert.True(t, errcode.Is(err, errcode.KindNotFound))
}

func TestRelationshipService_Block(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewRelationshipService(f.accounts, f.follows, f.blocks)
	u0 := testutil.SeedAccount(t, f.db, "u0")
	u1 := testutil.SeedAccount(t, f.db, "u1")

	assert.True(t, errcode.Is(svc.Block(ctx, u0.ID, u0.ID), errcode.KindValidation))
	require.NoError(t, svc.Block(ctx, u0.ID, u1.ID))
	blocked, err := f.blocks.BlockedAmong(ctx, u0.ID, []string{u1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{u1.ID}, blocked)

	require.NoError(t, svc.Unblock(ctx, u0.ID, u1.ID))
	blocked, err = f.blocks.BlockedAmong(ctx, u0.ID, []string{u1.ID})
	require.NoError(t, err)
	assert.Empty(t, blocked)
}
