package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/testutil"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

func TestReviewService_CreateReturnsFullEntity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReviewService(f.reviews, f.reactions)
	author := testutil.SeedAccount(t, f.db, "alice")

	got, err := svc.Create(ctx, author.ID, dto.ReviewInput{
		Title:   "Ramen",
		Content: "good",
		Score:   4,
		Tags:    []string{"noodle", "soup"},
		Images:  []dto.ImageInput{{Image: "a.png", Content: "bowl"}},
	})
	require.NoError(t, err)
	assert.NotZero(t, got.Idx)
	assert.Equal(t, "alice", got.User.Nickname)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "noodle", got.Tags[0].TagName)
	assert.Equal(t, "soup", got.Tags[1].TagName)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "a.png", got.Images[0].ImgPath)
	assert.Equal(t, "bowl", got.Images[0].Content)
	assert.Zero(t, got.LikeCount)
}

func TestReviewService_OwnerChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReviewService(f.reviews, f.reactions)
	author := testutil.SeedAccount(t, f.db, "alice")
	other := testutil.SeedAccount(t, f.db, "bob")
	created, err := svc.Create(ctx, author.ID, dto.ReviewInput{Title: "t", Content: "c", Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, other.ID, created.Idx, dto.ReviewInput{Title: "t2", Content: "c2"})
	assert.True(t, errcode.Is(err, errcode.KindUnauthorized))
	_, err = svc.Update(ctx, author.ID, 9999, dto.ReviewInput{Title: "t2", Content: "c2"})
	assert.True(t, errcode.Is(err, errcode.KindNotFound))
	assert.True(t, errcode.Is(svc.Delete(ctx, other.ID, created.Idx), errcode.KindUnauthorized))

	updated, err := svc.Update(ctx, author.ID, created.Idx, dto.ReviewInput{Title: "t2", Content: "c2", Tags: []string{"y", "z"}})
	require.NoError(t, err)
	assert.Equal(t, "t2", updated.Title)
	require.Len(t, updated.Tags, 2)
	assert.Equal(t, "y", updated.Tags[0].TagName)

	require.NoError(t, svc.Delete(ctx, author.ID, created.Idx))
	assert.True(t, errcode.Is(svc.Delete(ctx, author.ID, created.Idx), errcode.KindNotFound))
}

func TestReviewService_ReactionsAreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewReviewService(f.reviews, f.reactions)
	author := testutil.SeedAccount(t, f.db, "alice")
	fan := testutil.SeedAccount(t, f.db, "fan")
	created, err := svc.Create(ctx, author.ID, dto.ReviewInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.React(ctx, fan.ID, created.Idx, repository.ReactionLike, true))
	require.NoError(t, svc.React(ctx, fan.ID, created.Idx, repository.ReactionLike, true))
	require.NoError(t, svc.React(ctx, fan.ID, created.Idx, repository.ReactionBookmark, true))

	got, err := f.reviews.GetByID(ctx, created.Idx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Equal(t, int64(1), got.BookmarkCount)

	require.NoError(t, svc.React(ctx, fan.ID, created.Idx, repository.ReactionLike, false))
	got, err = f.reviews.GetByID(ctx, created.Idx)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)

	err = svc.React(ctx, fan.ID, 9999, repository.ReactionDislike, true)
	assert.True(t, errcode.Is(err, errcode.KindNotFound))
}
