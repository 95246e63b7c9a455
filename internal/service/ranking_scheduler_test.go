package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/testutil"
)

func TestWindowBounds(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 0, 0, time.Local)
	start, end := windowBounds(now, 7)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), end)
	assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local), nextMidnight(now))
}

func TestRankingScheduler_WritesSnapshots(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.Local)
	author := testutil.SeedAccount(t, f.db, "alice")
	u1 := testutil.SeedAccount(t, f.db, "u1")
	u2 := testutil.SeedAccount(t, f.db, "u2")

	r1 := testutil.SeedReview(t, f.db, author.ID, "one", now.AddDate(0, 0, -40))
	r2 := testutil.SeedReview(t, f.db, author.ID, "two", now.AddDate(0, 0, -40))
	r3 := testutil.SeedReview(t, f.db, author.ID, "three", now.AddDate(0, 0, -40))

	yesterday := now.AddDate(0, 0, -1)
	fiveDaysAgo := now.AddDate(0, 0, -5)
	twentyDaysAgo := now.AddDate(0, 0, -20)

	testutil.SeedLike(t, f.db, r1.ID, u1.ID, yesterday)
	testutil.SeedLike(t, f.db, r2.ID, u1.ID, fiveDaysAgo)
	testutil.SeedLike(t, f.db, r2.ID, u2.ID, fiveDaysAgo)
	testutil.SeedLike(t, f.db, r3.ID, u1.ID, twentyDaysAgo)
	testutil.SeedLike(t, f.db, r3.ID, u2.ID, twentyDaysAgo)
	testutil.SeedLike(t, f.db, r3.ID, author.ID, twentyDaysAgo)
	testutil.SeedDislike(t, f.db, r3.ID, u1.ID, yesterday)
	// 今天的点赞不计入任何窗口
	testutil.SeedLike(t, f.db, r3.ID, u1.ID+"x", now)

	s := NewRankingScheduler(f.reviews, f.rankings, 100).WithClock(func() time.Time { return now })
	require.NoError(t, s.RunOnce(ctx))

	load := func(key string) []uint {
		var snap []dto.ReviewResponse
		found, err := f.rankings.Load(ctx, key, &snap)
		require.NoError(t, err)
		require.True(t, found, key)
		out := make([]uint, len(snap))
		for i, r := range snap {
			out[i] = r.Idx
		}
		return out
	}

	assert.Equal(t, []uint{r1.ID}, load("hotReviews1Day"))
	assert.Equal(t, []uint{r2.ID, r1.ID}, load("hotReviews7Day"))
	assert.Equal(t, []uint{r3.ID, r2.ID, r1.ID}, load("hotReviews30Day"))
	assert.Equal(t, []uint{r3.ID}, load("coldReviews1Day"))
	assert.Equal(t, []uint{r3.ID}, load("coldReviews7Day"))
	assert.Equal(t, []uint{r3.ID}, load("coldReviews30Day"))
}

func TestRankingScheduler_EmptyBeforeFirstRun(t *testing.T) {
	f := newFixture(t)
	page, err := f.feed.ListRanked(context.Background(), "", cache.Hot, "7D", PageQuery{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPage)
	assert.Empty(t, page.Reviews)
}

func TestRankingScheduler_FeedSlicesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	author := testutil.SeedAccount(t, f.db, "alice")
	viewer := testutil.SeedAccount(t, f.db, "viewer")
	var want []uint
	for i := 0; i < 5; i++ {
		r := testutil.SeedReview(t, f.db, author.ID, "r", now.AddDate(0, 0, -3))
		testutil.SeedDislike(t, f.db, r.ID, viewer.ID, now.AddDate(0, 0, -2))
		want = append([]uint{r.ID}, want...)
	}

	require.NoError(t, NewRankingScheduler(f.reviews, f.rankings, 100).RunOnce(ctx))

	var got []uint
	for page := 1; page <= 3; page++ {
		res, err := f.feed.ListRanked(ctx, viewer.ID, cache.Cold, "", PageQuery{Page: page, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, 3, res.TotalPage)
		for _, r := range res.Reviews {
			assert.True(t, r.IsMyDislike)
			got = append(got, r.Idx)
		}
	}
	assert.Equal(t, want, got)

	_, err := f.feed.ListRanked(ctx, "", cache.Cold, "2W", PageQuery{Page: 1, Size: 2})
	assert.Error(t, err)
}
