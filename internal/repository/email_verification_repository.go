package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/review-feed/internal/model"
)

type EmailVerificationRepository interface {
	// Upsert 写入新验证码，覆盖旧记录并清除已验证状态
	Upsert(ctx context.Context, email string, code int) error
	Get(ctx context.Context, email string) (*model.EmailVerification, error)
	MarkVerified(ctx context.Context, email string, at time.Time) error
}

type emailVerificationRepository struct {
	db *gorm.DB
}

func NewEmailVerificationRepository(db *gorm.DB) EmailVerificationRepository {
	return &emailVerificationRepository{db: db}
}

func (r *emailVerificationRepository) Upsert(ctx context.Context, email string, code int) error {
	v := &model.EmailVerification{Email: email, Code: code, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"code": code, "verified_at": nil, "created_at": v.CreatedAt}),
	}).Create(v).Error
}

func (r *emailVerificationRepository) Get(ctx context.Context, email string) (*model.EmailVerification, error) {
	var v model.EmailVerification
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *emailVerificationRepository) MarkVerified(ctx context.Context, email string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.EmailVerification{}).
		Where("email = ?", email).
		Update("verified_at", at).Error
}
