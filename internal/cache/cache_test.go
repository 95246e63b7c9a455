package cache

import (
	"context"
	"sort"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestParseViewKey(t *testing.T) {
	id, ok := ParseViewKey(ViewKey(42))
	require.True(t, ok)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"review:x:viewCount", "review:1:likes", "hotReviews7Day", "review:0:viewCount"} {
		_, ok := ParseViewKey(bad)
		assert.False(t, ok, bad)
	}
}

func TestViewCounter_SeedAndIncr(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewViewCounter(rdb)
	ctx := context.Background()

	v, err := c.Current(ctx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)

	require.NoError(t, c.Incr(ctx, 7))
	// an existing counter is never reseeded
	v, err = c.Current(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), v)

	got, err := mr.Get(ViewKey(7))
	require.NoError(t, err)
	assert.Equal(t, "11", got)
}

func TestViewCounter_KeysAndDelete(t *testing.T) {
	mr, rdb := newRedis(t)
	c := NewViewCounter(rdb)
	ctx := context.Background()

	for _, id := range []uint{1, 2, 3} {
		require.NoError(t, mr.Set(ViewKey(id), "5"))
	}
	require.NoError(t, mr.Set("hotReviews7Day", "[]"))

	keys, err := c.Keys(ctx, 2)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{ViewKey(1), ViewKey(2), ViewKey(3)}, keys)

	require.NoError(t, c.Delete(ctx, ViewKey(2)))
	_, err = c.Get(ctx, ViewKey(2))
	assert.ErrorIs(t, err, ErrMissing)

	v, err := c.Get(ctx, ViewKey(3))
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestRankingStore(t *testing.T) {
	_, rdb := newRedis(t)
	s := NewRankingStore(rdb)
	ctx := context.Background()

	var out []int
	found, err := s.Load(ctx, RankingKey(Hot, 7), &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Save(ctx, RankingKey(Hot, 7), []int{3, 1, 2}))
	found, err = s.Load(ctx, "hotReviews7Day", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []int{3, 1, 2}, out)

	assert.Equal(t, "coldReviews30Day", RankingKey(Cold, 30))
}
