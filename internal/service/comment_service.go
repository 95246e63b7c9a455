package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

type CommentService interface {
	// Create 评论和通知事件在同一事务内写入；评论自己的评测不发通知
	Create(ctx context.Context, authorID string, reviewID uint, in dto.CommentInput) (*dto.CommentResponse, error)
	Update(ctx context.Context, actorID string, commentID uint, content string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actorID string, commentID uint) error
	List(ctx context.Context, reviewID uint, p PageQuery) (*dto.CommentPage, error)
	Get(ctx context.Context, reviewID, commentID uint) (*dto.CommentResponse, error)
}

type commentService struct {
	comments  repository.CommentRepository
	reviews   repository.ReviewRepository
	accounts  repository.AccountRepository
	publisher *NotificationPublisher
}

func NewCommentService(
	comments repository.CommentRepository,
	reviews repository.ReviewRepository,
	accounts repository.AccountRepository,
	publisher *NotificationPublisher,
) CommentService {
	return &commentService{comments: comments, reviews: reviews, accounts: accounts, publisher: publisher}
}

func (s *commentService) review(ctx context.Context, id uint) (*model.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errcode.NotFound("Review")
		}
		return nil, errcode.Internal("load review", err)
	}
	return r, nil
}

func (s *commentService) taggedAccounts(ctx context.Context, ids []string) ([]model.Account, error) {
	uniq := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return nil, nil
	}
	accounts, err := s.accounts.ListByIDs(ctx, uniq)
	if err != nil {
		return nil, errcode.Internal("load tagged users", err)
	}
	if len(accounts) != len(uniq) {
		return nil, errcode.NotFound("User")
	}
	return accounts, nil
}

func (s *commentService) Create(ctx context.Context, authorID string, reviewID uint, in dto.CommentInput) (*dto.CommentResponse, error) {
	review, err := s.review(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if in.CommentIdx != nil {
		if _, err := s.comments.GetInReview(ctx, reviewID, *in.CommentIdx); err != nil {
			if isNotFound(err) {
				return nil, errcode.NotFound("Comment")
			}
			return nil, errcode.Internal("load parent comment", err)
		}
	}
	tagged, err := s.taggedAccounts(ctx, in.UserIdxs)
	if err != nil {
		return nil, err
	}

	c := &model.Comment{
		ReviewID:    reviewID,
		ParentID:    in.CommentIdx,
		AccountID:   authorID,
		Content:     in.Content,
		TaggedUsers: tagged,
	}
	err = s.publisher.Publish(ctx, func(tx *gorm.DB) (*model.NotificationOutbox, error) {
		if err := s.comments.WithTx(tx).Create(ctx, c); err != nil {
			return nil, err
		}
		if authorID == review.AccountID {
			return nil, nil
		}
		return &model.NotificationOutbox{
			SenderID:    authorID,
			RecipientID: review.AccountID,
			Type:        model.NotificationTypeComment,
			ReviewID:    &reviewID,
			CommentID:   &c.ID,
		}, nil
	})
	if err != nil {
		return nil, errcode.Internal("create comment", err)
	}
	metrics.CommentsTotal.Inc()

	saved, err := s.comments.GetByID(ctx, c.ID)
	if err != nil {
		return nil, errcode.Internal("reload comment", err)
	}
	resp := dto.NewCommentResponse(saved)
	return &resp, nil
}

// owned 校验评论存在且属于 actorID
func (s *commentService) owned(ctx context.Context, actorID string, commentID uint) error {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if isNotFound(err) {
			return errcode.NotFound("Comment")
		}
		return errcode.Internal("load comment", err)
	}
	if c.AccountID != actorID {
		return errcode.Unauthorized("Unauthorized User")
	}
	return nil
}

func (s *commentService) Update(ctx context.Context, actorID string, commentID uint, content string) (*dto.CommentResponse, error) {
	if err := s.owned(ctx, actorID, commentID); err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, errcode.Internal("update comment", err)
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, errcode.Internal("reload comment", err)
	}
	resp := dto.NewCommentResponse(c)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actorID string, commentID uint) error {
	if err := s.owned(ctx, actorID, commentID); err != nil {
		return err
	}
	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return errcode.Internal("delete comment", err)
	}
	return nil
}

func (s *commentService) List(ctx context.Context, reviewID uint, p PageQuery) (*dto.CommentPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if _, err := s.review(ctx, reviewID); err != nil {
		return nil, err
	}
	rows, total, err := s.comments.ListByReview(ctx, reviewID, p.offset(), p.Size)
	if err != nil {
		return nil, errcode.Internal("list comments", err)
	}
	out := make([]dto.CommentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewCommentResponse(&rows[i]))
	}
	return &dto.CommentPage{TotalPage: totalPages(total, p.Size), Comments: out}, nil
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID uint) (*dto.CommentResponse, error) {
	c, err := s.comments.GetInReview(ctx, reviewID, commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, errcode.NotFound("Comment")
		}
		return nil, errcode.Internal("load comment", err)
	}
	resp := dto.NewCommentResponse(c)
	return &resp, nil
}
