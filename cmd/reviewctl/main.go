package main

import (
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/config"
	"github.com/d60-Lab/review-feed/pkg/database"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

var (
	cfg *config.Config
	db  *gorm.DB
	rdb *redis.Client
)

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "review-feed 运维命令",
	Long: `reviewctl 手动执行后台任务：建表、浏览数回写、热榜重算、通知投递。
配置与服务端相同（config.yaml / .env / 环境变量）。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if err := logger.Init(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if db, err = database.InitDB(cfg); err != nil {
			return fmt.Errorf("init db: %w", err)
		}
		if cmd.Annotations["redis"] == "true" {
			if rdb, err = database.InitRedis(cfg); err != nil {
				return fmt.Errorf("init redis: %w", err)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if rdb != nil {
			_ = rdb.Close()
		}
		if db != nil {
			_ = database.Close(db)
		}
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(dispatchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
