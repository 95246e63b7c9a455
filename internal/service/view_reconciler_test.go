package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/testutil"
)

// failingReviews 对指定评测的浏览数写入失败
type failingReviews struct {
	repository.ReviewRepository
	failID uint
}

func (f failingReviews) SetViewCount(ctx context.Context, id uint, count int64) error {
	if id == f.failID {
		return errors.New("db down")
	}
	return f.ReviewRepository.SetViewCount(ctx, id, count)
}

func TestViewReconciler_FlushesAndDeletesKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedAccount(t, f.db, "alice")
	r1 := testutil.SeedReview(t, f.db, author.ID, "one", time.Time{})
	r2 := testutil.SeedReview(t, f.db, author.ID, "two", time.Time{})

	require.NoError(t, f.mr.Set(cache.ViewKey(r1.ID), "12"))
	require.NoError(t, f.mr.Set(cache.ViewKey(r2.ID), "3"))

	rec := NewViewReconciler(f.counter, f.reviews, time.Minute, 1)
	stats, err := rec.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushStats{Keys: 2, Flushed: 2}, stats)

	got, err := f.reviews.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ViewCount)
	got, err = f.reviews.GetByID(ctx, r2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ViewCount)

	assert.False(t, f.mr.Exists(cache.ViewKey(r1.ID)))
	assert.False(t, f.mr.Exists(cache.ViewKey(r2.ID)))
}

func TestViewReconciler_FailedWriteKeepsKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedAccount(t, f.db, "alice")
	r1 := testutil.SeedReview(t, f.db, author.ID, "one", time.Time{})
	r2 := testutil.SeedReview(t, f.db, author.ID, "two", time.Time{})

	require.NoError(t, f.mr.Set(cache.ViewKey(r1.ID), "12"))
	require.NoError(t, f.mr.Set(cache.ViewKey(r2.ID), "3"))

	rec := NewViewReconciler(f.counter, failingReviews{ReviewRepository: f.reviews, failID: r1.ID}, time.Minute, 100)
	stats, err := rec.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Flushed)

	// 失败的 key 留到下一轮
	v, err := f.mr.Get(cache.ViewKey(r1.ID))
	require.NoError(t, err)
	assert.Equal(t, "12", v)
	assert.False(t, f.mr.Exists(cache.ViewKey(r2.ID)))

	got, err := f.reviews.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ViewCount)

	// 下一轮恢复后写入成功
	stats, err = NewViewReconciler(f.counter, f.reviews, time.Minute, 100).RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, FlushStats{Keys: 1, Flushed: 1}, stats)
	got, err = f.reviews.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ViewCount)
}

func TestViewReconciler_MalformedKeyIsCountedAsFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.mr.Set("review:abc:viewCount", "1"))

	stats, err := NewViewReconciler(f.counter, f.reviews, time.Minute, 100).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FlushStats{Keys: 1, Failed: 1}, stats)
	assert.True(t, f.mr.Exists("review:abc:viewCount"))
}

func TestViewReconciler_DetailAfterFlushContinuesCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.SeedAccount(t, f.db, "alice")
	r := testutil.SeedReview(t, f.db, author.ID, "one", time.Time{})

	for i := 0; i < 3; i++ {
		_, err := f.feed.GetDetail(ctx, "", r.ID)
		require.NoError(t, err)
	}
	_, err := NewViewReconciler(f.counter, f.reviews, time.Minute, 100).RunOnce(ctx)
	require.NoError(t, err)

	got, err := f.feed.GetDetail(ctx, "", r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ViewCount)
}

func TestViewReconciler_StopFlushesPending(t *testing.T) {
	f := newFixture(t)
	author := testutil.SeedAccount(t, f.db, "alice")
	r1 := testutil.SeedReview(t, f.db, author.ID, "one", time.Time{})

	stop := NewViewReconciler(f.counter, f.reviews, time.Hour, 10).Start()
	require.NoError(t, f.mr.Set(cache.ViewKey(r1.ID), "7"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))

	got, err := f.reviews.GetByID(context.Background(), r1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ViewCount)
	assert.False(t, f.mr.Exists(cache.ViewKey(r1.ID)))
}
