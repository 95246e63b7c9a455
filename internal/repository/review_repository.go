package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/internal/model"
)

// ReviewOrder 列表排序方式
type ReviewOrder int

const (
	OrderIDDesc ReviewOrder = iota
	OrderCreatedDesc
)

// ReviewFilter 各个 feed 的过滤条件，零值字段不参与过滤。
// 软删除的评测由 gorm.DeletedAt 自动排除。
type ReviewFilter struct {
	AccountID   string
	AccountIDs  []string
	Since       *time.Time
	FollowedBy  string // 作者被该用户关注
	Query       string // 标题/内容/作者昵称/标签，大小写不敏感
	CommentedBy string // 该用户有未删除的评论
	Order       ReviewOrder
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	// Update 在同一事务里更新主体并替换标签和图片
	Update(ctx context.Context, review *model.Review) error
	SoftDelete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Review, error)
	// GetByIDUnscoped 包含已删除的评测
	GetByIDUnscoped(ctx context.Context, id uint) (*model.Review, error)
	AuthorsOf(ctx context.Context, ids []uint) (map[uint]string, error)
	List(ctx context.Context, f ReviewFilter, offset, limit int) ([]model.Review, int64, error)
	// ListByReaction 按反应边时间倒序列出 accountID 点赞/点踩/收藏的评测
	ListByReaction(ctx context.Context, kind ReactionKind, accountID string, offset, limit int) ([]model.Review, int64, error)
	// TopByReaction 统计 [start, end] 内的反应边数量，降序取前 limit 个
	TopByReaction(ctx context.Context, kind ReactionKind, start, end time.Time, limit int) ([]model.Review, error)
	SetViewCount(ctx context.Context, id uint, count int64) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

const reviewCountColumns = "reviews.*, " +
	"(SELECT COUNT(*) FROM comments c WHERE c.review_id = reviews.id AND c.deleted_at IS NULL) AS comment_count, " +
	"(SELECT COUNT(*) FROM review_likes l WHERE l.review_id = reviews.id) AS like_count, " +
	"(SELECT COUNT(*) FROM review_dislikes d WHERE d.review_id = reviews.id) AS dislike_count, " +
	"(SELECT COUNT(*) FROM review_bookmarks b WHERE b.review_id = reviews.id) AS bookmark_count"

// detailed 附带计数子查询和关联预加载
func detailed(db *gorm.DB) *gorm.DB {
	return db.Select(reviewCountColumns).
		Preload("Account").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("review_images.id") })
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 标签和图片随主体一起写入
		return tx.Omit("Account").Create(review).Error
	})
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"title":   review.Title,
			"content": review.Content,
			"score":   review.Score,
		}
		// 缩略图未传时保留原值
		if review.Thumbnail != nil {
			fields["thumbnail"] = *review.Thumbnail
		}
		if review.ThumbnailContent != nil {
			fields["thumbnail_content"] = *review.ThumbnailContent
		}
		if err := tx.Model(&model.Review{ID: review.ID}).Updates(fields).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", review.ID).Delete(&model.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", review.ID).Delete(&model.ReviewImage{}).Error; err != nil {
			return err
		}
		for i := range review.Tags {
			review.Tags[i].ID = 0
			review.Tags[i].ReviewID = review.ID
		}
		for i := range review.Images {
			review.Images[i].ID = 0
			review.Images[i].ReviewID = review.ID
		}
		if len(review.Tags) > 0 {
			if err := tx.Create(&review.Tags).Error; err != nil {
				return err
			}
		}
		if len(review.Images) > 0 {
			if err := tx.Create(&review.Images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *reviewRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := detailed(r.db.WithContext(ctx).Model(&model.Review{})).
		Where("reviews.id = ?", id).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByIDUnscoped(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) AuthorsOf(ctx context.Context, ids []uint) (map[uint]string, error) {
	out := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ID        uint
		AccountID string
	}
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("id, account_id").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.AccountID
	}
	return out, nil
}

// filtered 每次返回新的查询链，count 和分页查询各用一条
func (r *reviewRepository) filtered(ctx context.Context, f ReviewFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Review{})
	if f.AccountID != "" {
		q = q.Where("reviews.account_id = ?", f.AccountID)
	}
	if len(f.AccountIDs) > 0 {
		q = q.Where("reviews.account_id IN ?", f.AccountIDs)
	}
	if f.Since != nil {
		q = q.Where("reviews.created_at >= ?", *f.Since)
	}
	if f.FollowedBy != "" {
		q = q.Where("reviews.account_id IN (SELECT followee_id FROM follows WHERE follower_id = ?)", f.FollowedBy)
	}
	if f.Query != "" {
		p := "%" + escapeLike(strings.ToLower(f.Query)) + "%"
		q = q.Where(`(LOWER(reviews.title) LIKE ? ESCAPE '\'`+
			` OR LOWER(reviews.content) LIKE ? ESCAPE '\'`+
			` OR EXISTS (SELECT 1 FROM accounts a WHERE a.id = reviews.account_id AND LOWER(a.nickname) LIKE ? ESCAPE '\')`+
			` OR EXISTS (SELECT 1 FROM tags t WHERE t.review_id = reviews.id AND LOWER(t.name) LIKE ? ESCAPE '\'))`,
			p, p, p, p)
	}
	if f.CommentedBy != "" {
		q = q.Where("EXISTS (SELECT 1 FROM comments c WHERE c.review_id = reviews.id AND c.account_id = ? AND c.deleted_at IS NULL)", f.CommentedBy)
	}
	return q
}

func (r *reviewRepository) List(ctx context.Context, f ReviewFilter, offset, limit int) ([]model.Review, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	order := "reviews.id DESC"
	if f.Order == OrderCreatedDesc {
		order = "reviews.created_at DESC, reviews.id DESC"
	}
	var rows []model.Review
	err := detailed(r.filtered(ctx, f)).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *reviewRepository) ListByReaction(ctx context.Context, kind ReactionKind, accountID string, offset, limit int) ([]model.Review, int64, error) {
	join := "JOIN " + kind.table() + " e ON e.review_id = reviews.id"
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Joins(join).
		Where("e.account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Review
	err := detailed(r.db.WithContext(ctx).Model(&model.Review{})).
		Joins(join).
		Where("e.account_id = ?", accountID).
		Order("e.created_at DESC, e.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *reviewRepository) TopByReaction(ctx context.Context, kind ReactionKind, start, end time.Time, limit int) ([]model.Review, error) {
	counts := r.db.Table(kind.table()).
		Select("review_id, COUNT(*) AS cnt").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("review_id")
	var rows []model.Review
	err := detailed(r.db.WithContext(ctx).Model(&model.Review{})).
		Joins("JOIN (?) w ON w.review_id = reviews.id", counts).
		Order("w.cnt DESC, reviews.id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *reviewRepository) SetViewCount(ctx context.Context, id uint, count int64) error {
	// UpdateColumn 不刷新 updated_at
	return r.db.WithContext(ctx).Model(&model.Review{}).
		Where("id = ?", id).
		UpdateColumn("view_count", count).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
