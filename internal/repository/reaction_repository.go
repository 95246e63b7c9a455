package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/review-feed/internal/model"
)

// ReactionKind 评测上的一类用户边
type ReactionKind int

const (
	ReactionLike ReactionKind = iota
	ReactionDislike
	ReactionBookmark
)

func (k ReactionKind) String() string {
	switch k {
	case ReactionLike:
		return "like"
	case ReactionDislike:
		return "dislike"
	case ReactionBookmark:
		return "bookmark"
	}
	return fmt.Sprintf("reaction(%d)", int(k))
}

func (k ReactionKind) table() string {
	switch k {
	case ReactionDislike:
		return model.ReviewDislike{}.TableName()
	case ReactionBookmark:
		return model.ReviewBookmark{}.TableName()
	default:
		return model.ReviewLike{}.TableName()
	}
}

func (k ReactionKind) edge(reviewID uint, accountID string) interface{} {
	switch k {
	case ReactionDislike:
		return &model.ReviewDislike{ReviewID: reviewID, AccountID: accountID}
	case ReactionBookmark:
		return &model.ReviewBookmark{ReviewID: reviewID, AccountID: accountID}
	default:
		return &model.ReviewLike{ReviewID: reviewID, AccountID: accountID}
	}
}

type ReactionRepository interface {
	Add(ctx context.Context, kind ReactionKind, reviewID uint, accountID string) error
	Remove(ctx context.Context, kind ReactionKind, reviewID uint, accountID string) error
	// ReviewIDsWith 返回 reviewIDs 中 accountID 有该类边的评测
	ReviewIDsWith(ctx context.Context, kind ReactionKind, accountID string, reviewIDs []uint) ([]uint, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

func (r *reactionRepository) Add(ctx context.Context, kind ReactionKind, reviewID uint, accountID string) error {
	// 幂等：重复点赞不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(kind.edge(reviewID, accountID)).Error
}

func (r *reactionRepository) Remove(ctx context.Context, kind ReactionKind, reviewID uint, accountID string) error {
	return r.db.WithContext(ctx).
		Where("review_id = ? AND account_id = ?", reviewID, accountID).
		Delete(kind.edge(0, "")).Error
}

func (r *reactionRepository) ReviewIDsWith(ctx context.Context, kind ReactionKind, accountID string, reviewIDs []uint) ([]uint, error) {
	if accountID == "" || len(reviewIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).
		Table(kind.table()).
		Where("account_id = ? AND review_id IN ?", accountID, reviewIDs).
		Pluck("review_id", &ids).Error
	return ids, err
}
