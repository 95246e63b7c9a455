package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

// FlushStats 一次回写的结果
type FlushStats struct {
	Keys    int
	Flushed int
	Failed  int
}

// ViewReconciler 周期性把 redis 中的浏览数写回数据库。
// 每个 key：读值 -> 写库 -> 删 key；写库失败时保留 key 等下一轮。
// 读和删之间发生的浏览会丢失，属于可接受的窗口。
type ViewReconciler struct {
	counter   *cache.ViewCounter
	reviews   repository.ReviewRepository
	interval  time.Duration
	batchSize int
}

func NewViewReconciler(counter *cache.ViewCounter, reviews repository.ReviewRepository, interval time.Duration, batchSize int) *ViewReconciler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ViewReconciler{counter: counter, reviews: reviews, interval: interval, batchSize: batchSize}
}

// Start 启动定时回写；停止时再回写一轮，返回的停止函数等待它结束。
func (r *ViewReconciler) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				_, _ = r.RunOnce(context.Background())
				return
			case <-ticker.C:
				_, _ = r.RunOnce(context.Background())
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

// RunOnce 扫描全部计数 key，按批并发回写，一批完成后才开始下一批。
func (r *ViewReconciler) RunOnce(ctx context.Context) (FlushStats, error) {
	start := time.Now()
	defer func() { metrics.ViewFlushDuration.Observe(time.Since(start).Seconds()) }()

	keys, err := r.counter.Keys(ctx, int64(r.batchSize))
	if err != nil {
		logger.Error("view flush: list keys failed", zap.Error(err))
		sentry.CaptureException(err)
		return FlushStats{}, err
	}
	stats := FlushStats{Keys: len(keys)}
	for i := 0; i < len(keys); i += r.batchSize {
		batch := keys[i:min(i+r.batchSize, len(keys))]
		var flushed, failed atomic.Int64
		var wg sync.WaitGroup
		for _, key := range batch {
			wg.Add(1)
			go func(key string) {
				defer wg.Done()
				if err := r.flushKey(ctx, key); err != nil {
					failed.Add(1)
					metrics.ViewFlushKeysTotal.WithLabelValues("failed").Inc()
					logger.Warn("view flush: key failed", zap.String("key", key), zap.Error(err))
					return
				}
				flushed.Add(1)
			}(key)
		}
		wg.Wait()
		stats.Flushed += int(flushed.Load())
		stats.Failed += int(failed.Load())
	}
	if stats.Keys > 0 {
		logger.Info("view flush done",
			zap.Int("keys", stats.Keys),
			zap.Int("flushed", stats.Flushed),
			zap.Int("failed", stats.Failed),
			zap.Duration("took", time.Since(start)))
	}
	return stats, nil
}

func (r *ViewReconciler) flushKey(ctx context.Context, key string) error {
	id, ok := cache.ParseViewKey(key)
	if !ok {
		return fmt.Errorf("malformed view key %q", key)
	}
	count, err := r.counter.Get(ctx, key)
	if errors.Is(err, cache.ErrMissing) {
		// 已被其他实例处理
		metrics.ViewFlushKeysTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read counter: %w", err)
	}
	if err := r.reviews.SetViewCount(ctx, id, count); err != nil {
		return fmt.Errorf("persist view count of review %d: %w", id, err)
	}
	// 只有写库成功才删除 key
	if err := r.counter.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete counter: %w", err)
	}
	metrics.ViewFlushKeysTotal.WithLabelValues("flushed").Inc()
	return nil
}
