package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

// AllReviewsQuery 全部评测的过滤条件
type AllReviewsQuery struct {
	PageQuery
	Timeframe string
	UserID    string
	UserIDs   []string
}

// ReviewFeedService 各种评测列表与详情。viewerID 为空表示匿名访问，此时不叠加用户状态。
type ReviewFeedService interface {
	ListAll(ctx context.Context, viewerID string, q AllReviewsQuery) (*dto.ReviewPage, error)
	ListFollowing(ctx context.Context, viewerID string, p PageQuery) (*dto.ReviewPage, error)
	Search(ctx context.Context, viewerID, query string, p PageQuery) (*dto.ReviewPage, error)
	ListRanked(ctx context.Context, viewerID string, polarity cache.Polarity, window string, p PageQuery) (*dto.ReviewPage, error)
	ListBookmarked(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error)
	ListCommented(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error)
	ListLiked(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error)
	ListLatestByUsers(ctx context.Context, viewerID string, userIDs []string, p PageQuery) (*dto.ReviewPage, error)
	// GetDetail 返回的浏览数包含本次浏览
	GetDetail(ctx context.Context, viewerID string, reviewID uint) (*dto.ReviewResponse, error)
}

type reviewFeedService struct {
	reviews  repository.ReviewRepository
	accounts repository.AccountRepository
	counter  *cache.ViewCounter
	rankings *cache.RankingStore
	status   *UserStatusService
	now      func() time.Time
}

func NewReviewFeedService(
	reviews repository.ReviewRepository,
	accounts repository.AccountRepository,
	counter *cache.ViewCounter,
	rankings *cache.RankingStore,
	status *UserStatusService,
) ReviewFeedService {
	return &reviewFeedService{
		reviews:  reviews,
		accounts: accounts,
		counter:  counter,
		rankings: rankings,
		status:   status,
		now:      time.Now,
	}
}

func (s *reviewFeedService) ensureAccount(ctx context.Context, id string) error {
	ok, err := s.accounts.Exists(ctx, id)
	if err != nil {
		return errcode.Internal("check account", err)
	}
	if !ok {
		return errcode.NotFound("User")
	}
	return nil
}

// page 查询一页并叠加用户状态
func (s *reviewFeedService) page(ctx context.Context, viewerID string, p PageQuery, load func(offset, limit int) ([]model.Review, int64, error)) (*dto.ReviewPage, error) {
	rows, total, err := load(p.offset(), p.Size)
	if err != nil {
		return nil, errcode.Internal("load reviews", err)
	}
	items := dto.NewReviewResponses(rows)
	if err := s.status.Decorate(ctx, viewerID, items); err != nil {
		return nil, errcode.Internal("load user status", err)
	}
	return &dto.ReviewPage{TotalPage: totalPages(total, p.Size), Reviews: items}, nil
}

func (s *reviewFeedService) list(ctx context.Context, viewerID string, f repository.ReviewFilter, p PageQuery) (*dto.ReviewPage, error) {
	return s.page(ctx, viewerID, p, func(offset, limit int) ([]model.Review, int64, error) {
		return s.reviews.List(ctx, f, offset, limit)
	})
}

func (s *reviewFeedService) ListAll(ctx context.Context, viewerID string, q AllReviewsQuery) (*dto.ReviewPage, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	since, bounded, err := ResolveTimeframe(q.Timeframe, s.now())
	if err != nil {
		return nil, err
	}
	if q.UserID != "" {
		if err := s.ensureAccount(ctx, q.UserID); err != nil {
			return nil, err
		}
	}
	f := repository.ReviewFilter{AccountID: q.UserID, AccountIDs: q.UserIDs}
	if bounded {
		f.Since = &since
	}
	return s.list(ctx, viewerID, f, q.PageQuery)
}

func (s *reviewFeedService) ListFollowing(ctx context.Context, viewerID string, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if viewerID == "" {
		return nil, errcode.Unauthorized("login required")
	}
	return s.list(ctx, viewerID, repository.ReviewFilter{FollowedBy: viewerID, Order: repository.OrderCreatedDesc}, p)
}

func (s *reviewFeedService) Search(ctx context.Context, viewerID, query string, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errcode.Validation("search must not be empty")
	}
	return s.list(ctx, viewerID, repository.ReviewFilter{Query: query}, p)
}

// ListRanked 从快照切片；快照不存在（首次计算前）返回空页
func (s *reviewFeedService) ListRanked(ctx context.Context, viewerID string, polarity cache.Polarity, window string, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	days, err := ResolveWindow(window)
	if err != nil {
		return nil, err
	}
	var snapshot []dto.ReviewResponse
	found, err := s.rankings.Load(ctx, cache.RankingKey(polarity, days), &snapshot)
	if err != nil {
		return nil, errcode.Internal("load ranking snapshot", err)
	}
	if !found {
		return &dto.ReviewPage{TotalPage: 0, Reviews: []dto.ReviewResponse{}}, nil
	}
	start := min(p.offset(), len(snapshot))
	end := min(start+p.Size, len(snapshot))
	items := snapshot[start:end]
	if err := s.status.Decorate(ctx, viewerID, items); err != nil {
		return nil, errcode.Internal("load user status", err)
	}
	return &dto.ReviewPage{TotalPage: totalPages(int64(len(snapshot)), p.Size), Reviews: items}, nil
}

func (s *reviewFeedService) listByReaction(ctx context.Context, viewerID, userID string, kind repository.ReactionKind, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, userID); err != nil {
		return nil, err
	}
	return s.page(ctx, viewerID, p, func(offset, limit int) ([]model.Review, int64, error) {
		return s.reviews.ListByReaction(ctx, kind, userID, offset, limit)
	})
}

func (s *reviewFeedService) ListBookmarked(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error) {
	return s.listByReaction(ctx, viewerID, userID, repository.ReactionBookmark, p)
}

// ListLiked 按点赞边查询 userID 点赞过的评测
func (s *reviewFeedService) ListLiked(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error) {
	return s.listByReaction(ctx, viewerID, userID, repository.ReactionLike, p)
}

func (s *reviewFeedService) ListCommented(ctx context.Context, viewerID, userID string, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := s.ensureAccount(ctx, userID); err != nil {
		return nil, err
	}
	return s.list(ctx, viewerID, repository.ReviewFilter{CommentedBy: userID}, p)
}

func (s *reviewFeedService) ListLatestByUsers(ctx context.Context, viewerID string, userIDs []string, p PageQuery) (*dto.ReviewPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return &dto.ReviewPage{Reviews: []dto.ReviewResponse{}}, nil
	}
	return s.list(ctx, viewerID, repository.ReviewFilter{AccountIDs: userIDs, Order: repository.OrderCreatedDesc}, p)
}

func (s *reviewFeedService) GetDetail(ctx context.Context, viewerID string, reviewID uint) (*dto.ReviewResponse, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, errcode.NotFound("Review")
		}
		return nil, errcode.Internal("load review", err)
	}

	count, err := s.counter.Current(ctx, reviewID, review.ViewCount)
	if err != nil {
		// 缓存不可用时退回持久值
		logger.Warn("view counter unavailable", zap.Uint("review", reviewID), zap.Error(err))
		count = review.ViewCount
	}
	resp := dto.NewReviewResponse(review)
	resp.ViewCount = count + 1
	if err := s.counter.Incr(ctx, reviewID); err != nil {
		logger.Warn("view counter incr failed", zap.Uint("review", reviewID), zap.Error(err))
	}

	items := []dto.ReviewResponse{resp}
	if err := s.status.Decorate(ctx, viewerID, items); err != nil {
		return nil, errcode.Internal("load user status", err)
	}
	return &items[0], nil
}
