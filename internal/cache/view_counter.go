package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const viewKeyPattern = "review:*:viewCount"

// ErrMissing is returned when a counter key vanished between discovery and read.
var ErrMissing = errors.New("cache: key missing")

// ViewKey returns the counter key for a review.
func ViewKey(reviewID uint) string {
	return fmt.Sprintf("review:%d:viewCount", reviewID)
}

// ParseViewKey extracts the review id from a counter key.
func ParseViewKey(key string) (uint, bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "review" || parts[2] != "viewCount" {
		return 0, false
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ViewCounter keeps per-review view counts in redis. The cached value is the
// absolute count: it is seeded from the durable value on first read and
// incremented afterwards, so writing it back is idempotent.
type ViewCounter struct {
	rdb *redis.Client
}

func NewViewCounter(rdb *redis.Client) *ViewCounter {
	return &ViewCounter{rdb: rdb}
}

// Current returns the cached count for a review, seeding it with durable when absent.
func (c *ViewCounter) Current(ctx context.Context, reviewID uint, durable int64) (int64, error) {
	key := ViewKey(reviewID)
	pipe := c.rdb.Pipeline()
	pipe.SetNX(ctx, key, durable, 0)
	get := pipe.Get(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("read view count %s: %w", key, err)
	}
	return get.Int64()
}

// Incr records one view.
func (c *ViewCounter) Incr(ctx context.Context, reviewID uint) error {
	return c.rdb.Incr(ctx, ViewKey(reviewID)).Err()
}

// Keys lists every counter key using SCAN; count is only a hint to redis.
func (c *ViewCounter) Keys(ctx context.Context, count int64) ([]string, error) {
	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64
	for {
		batch, next, err := c.rdb.Scan(ctx, cursor, viewKeyPattern, count).Result()
		if err != nil {
			return nil, fmt.Errorf("scan view keys: %w", err)
		}
		for _, k := range batch {
			// SCAN may return a key more than once
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

// Get reads a counter by key.
func (c *ViewCounter) Get(ctx context.Context, key string) (int64, error) {
	v, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMissing
	}
	return v, err
}

func (c *ViewCounter) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
