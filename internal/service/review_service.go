package service

import (
	"context"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

// ReviewService 评测写操作与点赞/点踩/收藏
type ReviewService interface {
	Create(ctx context.Context, authorID string, in dto.ReviewInput) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actorID string, reviewID uint, in dto.ReviewInput) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actorID string, reviewID uint) error
	// React 添加（on=true）或撤销一条反应边，重复操作幂等
	React(ctx context.Context, actorID string, reviewID uint, kind repository.ReactionKind, on bool) error
}

type reviewService struct {
	reviews   repository.ReviewRepository
	reactions repository.ReactionRepository
}

func NewReviewService(reviews repository.ReviewRepository, reactions repository.ReactionRepository) ReviewService {
	return &reviewService{reviews: reviews, reactions: reactions}
}

func buildReview(in dto.ReviewInput) *model.Review {
	r := &model.Review{
		Title:            in.Title,
		Content:          in.Content,
		Score:            in.Score,
		Thumbnail:        in.Thumbnail,
		ThumbnailContent: in.ThumbnailContent,
		Tags:             make([]model.Tag, 0, len(in.Tags)),
		Images:           make([]model.ReviewImage, 0, len(in.Images)),
	}
	for _, name := range in.Tags {
		r.Tags = append(r.Tags, model.Tag{Name: name})
	}
	for _, img := range in.Images {
		r.Images = append(r.Images, model.ReviewImage{Path: img.Image, Caption: img.Content})
	}
	return r
}

func (s *reviewService) Create(ctx context.Context, authorID string, in dto.ReviewInput) (*dto.ReviewResponse, error) {
	r := buildReview(in)
	r.AccountID = authorID
	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, errcode.Internal("create review", err)
	}
	return s.load(ctx, r.ID)
}

// owned 校验评测存在且属于 actorID
func (s *reviewService) owned(ctx context.Context, actorID string, reviewID uint) error {
	r, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if isNotFound(err) {
			return errcode.NotFound("Review")
		}
		return errcode.Internal("load review", err)
	}
	if r.AccountID != actorID {
		return errcode.Unauthorized("Unauthorized User")
	}
	return nil
}

func (s *reviewService) Update(ctx context.Context, actorID string, reviewID uint, in dto.ReviewInput) (*dto.ReviewResponse, error) {
	if err := s.owned(ctx, actorID, reviewID); err != nil {
		return nil, err
	}
	r := buildReview(in)
	r.ID = reviewID
	if err := s.reviews.Update(ctx, r); err != nil {
		return nil, errcode.Internal("update review", err)
	}
	return s.load(ctx, reviewID)
}

func (s *reviewService) Delete(ctx context.Context, actorID string, reviewID uint) error {
	if err := s.owned(ctx, actorID, reviewID); err != nil {
		return err
	}
	if err := s.reviews.SoftDelete(ctx, reviewID); err != nil {
		return errcode.Internal("delete review", err)
	}
	return nil
}

func (s *reviewService) React(ctx context.Context, actorID string, reviewID uint, kind repository.ReactionKind, on bool) error {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		if isNotFound(err) {
			return errcode.NotFound("Review")
		}
		return errcode.Internal("load review", err)
	}
	op := "add"
	var err error
	if on {
		err = s.reactions.Add(ctx, kind, reviewID, actorID)
	} else {
		op = "remove"
		err = s.reactions.Remove(ctx, kind, reviewID, actorID)
	}
	if err != nil {
		return errcode.Internal("update "+kind.String(), err)
	}
	metrics.ReactionsTotal.WithLabelValues(kind.String(), op).Inc()
	return nil
}

func (s *reviewService) load(ctx context.Context, id uint) (*dto.ReviewResponse, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, errcode.Internal("reload review", err)
	}
	resp := dto.NewReviewResponse(r)
	return &resp, nil
}
