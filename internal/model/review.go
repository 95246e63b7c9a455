package model

import (
	"time"

	"gorm.io/gorm"
)

// Review 评测主体；各种计数都是读取时子查询得到的，只有 ViewCount 落库
type Review struct {
	ID               uint          `gorm:"primaryKey"`
	AccountID        string        `gorm:"type:varchar(36);index:idx_review_account;not null"`
	Account          Account       `gorm:"foreignKey:AccountID"`
	Title            string        `gorm:"type:varchar(255);not null"`
	Content          string        `gorm:"type:text;not null"`
	Score            int           `gorm:"not null;default:0"`
	Thumbnail        *string       `gorm:"type:varchar(512)"`
	ThumbnailContent *string       `gorm:"type:varchar(512)"`
	ViewCount        int64         `gorm:"not null;default:0"`
	Tags             []Tag         `gorm:"foreignKey:ReviewID"`
	Images           []ReviewImage `gorm:"foreignKey:ReviewID"`

	CommentCount  int64 `gorm:"->;-:migration"`
	LikeCount     int64 `gorm:"->;-:migration"`
	DislikeCount  int64 `gorm:"->;-:migration"`
	BookmarkCount int64 `gorm:"->;-:migration"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Review) TableName() string { return "reviews" }

// State 返回软删除状态
func (r *Review) State() State { return stateOf(r.DeletedAt) }

// Tag 评测标签，按 ID 保持写入顺序
type Tag struct {
	ID       uint   `gorm:"primaryKey"`
	ReviewID uint   `gorm:"index;not null"`
	Name     string `gorm:"type:varchar(64);index;not null"`
}

func (Tag) TableName() string { return "tags" }

// ReviewImage 评测图片
type ReviewImage struct {
	ID       uint   `gorm:"primaryKey"`
	ReviewID uint   `gorm:"index;not null"`
	Path     string `gorm:"type:varchar(512);not null"`
	Caption  string `gorm:"type:text"`
}

func (ReviewImage) TableName() string { return "review_images" }
