package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

// RankingWindows 热榜统计窗口（天）
var RankingWindows = []int{1, 7, 30}

var rankingKinds = []struct {
	polarity cache.Polarity
	kind     repository.ReactionKind
}{
	{cache.Hot, repository.ReactionLike},
	{cache.Cold, repository.ReactionDislike},
}

// RankingScheduler 每天本地零点重算热榜（点赞）与冷榜（点踩）快照，启动时先算一次。
type RankingScheduler struct {
	reviews repository.ReviewRepository
	store   *cache.RankingStore
	limit   int
	now     func() time.Time
}

func NewRankingScheduler(reviews repository.ReviewRepository, store *cache.RankingStore, limit int) *RankingScheduler {
	if limit <= 0 {
		limit = 100
	}
	return &RankingScheduler{reviews: reviews, store: store, limit: limit, now: time.Now}
}

// WithClock 替换时钟，测试用
func (s *RankingScheduler) WithClock(now func() time.Time) *RankingScheduler {
	s.now = now
	return s
}

// windowBounds 返回 [N 天前零点, 今天零点]
func windowBounds(now time.Time, days int) (time.Time, time.Time) {
	end := midnight(now)
	return end.AddDate(0, 0, -days), end
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	return midnight(t).AddDate(0, 0, 1)
}

// RunOnce 计算全部窗口；单个窗口失败只记录日志，不影响其他窗口。
func (s *RankingScheduler) RunOnce(ctx context.Context) error {
	now := s.now()
	var errs []error
	for _, rk := range rankingKinds {
		for _, days := range RankingWindows {
			if err := s.rebuild(ctx, rk.polarity, rk.kind, days, now); err != nil {
				metrics.RankingRunsTotal.WithLabelValues(string(rk.polarity), strconv.Itoa(days), "failed").Inc()
				logger.Error("ranking snapshot failed",
					zap.String("polarity", string(rk.polarity)),
					zap.Int("days", days),
					zap.Error(err))
				sentry.CaptureException(err)
				errs = append(errs, err)
				continue
			}
			metrics.RankingRunsTotal.WithLabelValues(string(rk.polarity), strconv.Itoa(days), "ok").Inc()
		}
	}
	if len(errs) == 0 {
		metrics.RankingLastSuccess.Set(float64(now.Unix()))
	}
	return errors.Join(errs...)
}

func (s *RankingScheduler) rebuild(ctx context.Context, polarity cache.Polarity, kind repository.ReactionKind, days int, now time.Time) error {
	start, end := windowBounds(now, days)
	rows, err := s.reviews.TopByReaction(ctx, kind, start, end, s.limit)
	if err != nil {
		return fmt.Errorf("query top %s reviews: %w", kind, err)
	}
	key := cache.RankingKey(polarity, days)
	if err := s.store.Save(ctx, key, dto.NewReviewResponses(rows)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	logger.Debug("ranking snapshot written", zap.String("key", key), zap.Int("size", len(rows)))
	return nil
}

// Start 立即计算一次，之后在每个本地零点触发。
func (s *RankingScheduler) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.RunOnce(context.Background())
		for {
			now := s.now()
			timer := time.NewTimer(nextMidnight(now).Sub(now))
			select {
			case <-stop:
				timer.Stop()
				return
			case <-timer.C:
				_ = s.RunOnce(context.Background())
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
