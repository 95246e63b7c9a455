package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/review-feed/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID string) error
	Delete(ctx context.Context, followerID, followeeID string) error
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	// ListFollowing 返回 followerID 关注的人（按关注时间倒序）及总数
	ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]model.Account, int64, error)
	// ListFollowers 返回关注 followeeID 的人及总数
	ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]model.Account, int64, error)
	// FollowedAmong 返回 candidates 中被 followerID 关注的账号
	FollowedAmong(ctx context.Context, followerID string, candidates []string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, followerID, followeeID string) error {
	f := &model.Follow{ID: uuid.New().String(), FollowerID: followerID, FolloweeID: followeeID}
	// 幂等：重复关注不报错
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(f).Error
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]model.Account, int64, error) {
	return r.listSide(ctx, "followee_id", "follower_id", followerID, offset, limit)
}

func (r *followRepository) ListFollowers(ctx context.Context, followeeID string, offset, limit int) ([]model.Account, int64, error) {
	return r.listSide(ctx, "follower_id", "followee_id", followeeID, offset, limit)
}

// listSide 以 follows 的一侧 join accounts
func (r *followRepository) listSide(ctx context.Context, joinCol, whereCol, userID string, offset, limit int) ([]model.Account, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Follow{}).
		Where(whereCol+" = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []model.Account
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Select("accounts.*").
		Joins("JOIN follows ON follows."+joinCol+" = accounts.id").
		Where("follows."+whereCol+" = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, total, err
}

func (r *followRepository) FollowedAmong(ctx context.Context, followerID string, candidates []string) ([]string, error) {
	if followerID == "" || len(candidates) == 0 {
		return nil, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", followerID, candidates).
		Pluck("followee_id", &ids).Error
	return ids, err
}
