// Package testutil 测试用的 sqlite 内存库、miniredis 与数据构造
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/pkg/database"
)

var dbSeq atomic.Int64

var nameSanitizer = strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_", "&", "_", "=", "_")

// NewDB 每个测试独立的共享缓存内存库；单连接避免 sqlite 写锁冲突
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", nameSanitizer.Replace(t.Name()), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewRedis 启动 miniredis 并返回客户端
func NewRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func SeedAccount(t testing.TB, db *gorm.DB, nickname string) *model.Account {
	t.Helper()
	a := &model.Account{
		ID:       uuid.New().String(),
		Email:    nickname + "@example.com",
		Nickname: nickname,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// SeedReview 写入一条评测，createdAt 为零值时使用当前时间
func SeedReview(t testing.TB, db *gorm.DB, authorID, title string, createdAt time.Time, tags ...string) *model.Review {
	t.Helper()
	r := &model.Review{AccountID: authorID, Title: title, Content: title + " content", Score: 5}
	if !createdAt.IsZero() {
		r.CreatedAt = createdAt
		r.UpdatedAt = createdAt
	}
	for _, name := range tags {
		r.Tags = append(r.Tags, model.Tag{Name: name})
	}
	require.NoError(t, db.Omit("Account").Create(r).Error)
	return r
}

func SeedLike(t testing.TB, db *gorm.DB, reviewID uint, accountID string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.ReviewLike{ReviewID: reviewID, AccountID: accountID, CreatedAt: at}).Error)
}

func SeedDislike(t testing.TB, db *gorm.DB, reviewID uint, accountID string, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.ReviewDislike{ReviewID: reviewID, AccountID: accountID, CreatedAt: at}).Error)
}
