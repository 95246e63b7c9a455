package service

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/testutil"
)

type fixture struct {
	db        *gorm.DB
	mr        *miniredis.Miniredis
	reviews   repository.ReviewRepository
	accounts  repository.AccountRepository
	follows   repository.FollowRepository
	blocks    repository.BlockRepository
	reactions repository.ReactionRepository
	comments  repository.CommentRepository
	notifs    repository.NotificationRepository
	counter   *cache.ViewCounter
	rankings  *cache.RankingStore
	status    *UserStatusService
	feed      ReviewFeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	mr, rdb := testutil.NewRedis(t)
	f := &fixture{
		db:        db,
		mr:        mr,
		reviews:   repository.NewReviewRepository(db),
		accounts:  repository.NewAccountRepository(db),
		follows:   repository.NewFollowRepository(db),
		blocks:    repository.NewBlockRepository(db),
		reactions: repository.NewReactionRepository(db),
		comments:  repository.NewCommentRepository(db),
		notifs:    repository.NewNotificationRepository(db),
		counter:   cache.NewViewCounter(rdb),
		rankings:  cache.NewRankingStore(rdb),
	}
	f.status = NewUserStatusService(f.reactions, f.blocks, f.reviews)
	f.feed = NewReviewFeedService(f.reviews, f.accounts, f.counter, f.rankings, f.status)
	return f
}
