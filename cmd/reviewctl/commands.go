package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/service"
	"github.com/d60-Lab/review-feed/pkg/database"
)

var needsRedis = map[string]string{"redis": "true"}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行 AutoMigrate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrated")
		return nil
	},
}

var flushBatch int

var flushCmd = &cobra.Command{
	Use:         "flush",
	Short:       "立即把缓存中的浏览数回写数据库",
	Annotations: needsRedis,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch := flushBatch
		if batch <= 0 {
			batch = cfg.Feed.ViewFlushBatch
		}
		rec := service.NewViewReconciler(cache.NewViewCounter(rdb), repository.NewReviewRepository(db), cfg.Feed.ViewFlushInterval, batch)
		stats, err := rec.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "keys=%d flushed=%d failed=%d\n", stats.Keys, stats.Flushed, stats.Failed)
		return nil
	},
}

var rankLimit int

var rankCmd = &cobra.Command{
	Use:         "rank",
	Short:       "重算全部热门/冷门快照",
	Annotations: needsRedis,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := rankLimit
		if limit <= 0 {
			limit = cfg.Feed.RankingLimit
		}
		s := service.NewRankingScheduler(repository.NewReviewRepository(db), cache.NewRankingStore(rdb), limit)
		if err := s.RunOnce(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "rankings rebuilt")
		return nil
	},
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "投递一轮待处理的通知事件",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 独立进程里没有 SSE 订阅者，只落库
		d := service.NewNotificationDispatcher(
			repository.NewNotificationRepository(db),
			repository.NewAccountRepository(db),
			service.NewNotificationHub(0),
			cfg.Feed.NotifyClaimLimit,
			cfg.Feed.NotifyPollInterval,
		)
		n, err := d.ProcessOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "delivered=%d\n", n)
		return nil
	},
}

func init() {
	flushCmd.Flags().IntVar(&flushBatch, "batch", 0, "每批并发回写的 key 数，默认取配置")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "每个快照保留的条数，默认取配置")
}
