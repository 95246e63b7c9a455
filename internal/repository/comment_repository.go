package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/internal/model"
)

type CommentRepository interface {
	// WithTx 返回绑定到事务的仓储
	WithTx(tx *gorm.DB) CommentRepository
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	GetInReview(ctx context.Context, reviewID, commentID uint) (*model.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string) error
	SoftDelete(ctx context.Context, id uint) error
	ListByReview(ctx context.Context, reviewID uint, offset, limit int) ([]model.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository { return &commentRepository{db: tx} }

func withAuthors(db *gorm.DB) *gorm.DB {
	return db.Preload("Account").Preload("TaggedUsers")
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	// 被标记用户必须已存在，只写关联表
	return r.db.WithContext(ctx).Omit("Account", "TaggedUsers.*").Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := withAuthors(r.db.WithContext(ctx)).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) GetInReview(ctx context.Context, reviewID, commentID uint) (*model.Comment, error) {
	var c model.Comment
	if err := withAuthors(r.db.WithContext(ctx)).
		Where("id = ? AND review_id = ?", commentID, reviewID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	return r.db.WithContext(ctx).Model(&model.Comment{ID: id}).Update("content", content).Error
}

func (r *commentRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}

func (r *commentRepository) ListByReview(ctx context.Context, reviewID uint, offset, limit int) ([]model.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("review_id = ?", reviewID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Comment
	err := withAuthors(r.db.WithContext(ctx)).
		Where("review_id = ?", reviewID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
