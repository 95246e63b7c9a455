package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Polarity string

const (
	Hot  Polarity = "hot"
	Cold Polarity = "cold"
)

// RankingKey returns e.g. hotReviews7Day.
func RankingKey(p Polarity, days int) string {
	return fmt.Sprintf("%sReviews%dDay", p, days)
}

// RankingStore holds ranking snapshots as JSON blobs without expiry. Each run
// replaces a snapshot wholesale.
type RankingStore struct {
	rdb *redis.Client
}

func NewRankingStore(rdb *redis.Client) *RankingStore {
	return &RankingStore{rdb: rdb}
}

func (s *RankingStore) Save(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", key, err)
	}
	return s.rdb.Set(ctx, key, payload, 0).Err()
}

// Load decodes the snapshot into dst. found is false when no snapshot was written yet.
func (s *RankingStore) Load(ctx context.Context, key string, dst any) (found bool, err error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return true, nil
}
