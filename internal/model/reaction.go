package model

import "time"

// ReviewLike 点赞边；热榜按窗口内 CreatedAt 统计
type ReviewLike struct {
	ID        uint      `gorm:"primaryKey"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:ux_like_pair;index"`
	AccountID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_like_pair"`
	CreatedAt time.Time `gorm:"index"`
}

func (ReviewLike) TableName() string { return "review_likes" }

// ReviewDislike 点踩边；冷榜按窗口内 CreatedAt 统计
type ReviewDislike struct {
	ID        uint      `gorm:"primaryKey"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:ux_dislike_pair;index"`
	AccountID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_dislike_pair"`
	CreatedAt time.Time `gorm:"index"`
}

func (ReviewDislike) TableName() string { return "review_dislikes" }

// ReviewBookmark 收藏边
type ReviewBookmark struct {
	ID        uint      `gorm:"primaryKey"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:ux_bookmark_pair;index"`
	AccountID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_bookmark_pair"`
	CreatedAt time.Time `gorm:"index"`
}

func (ReviewBookmark) TableName() string { return "review_bookmarks" }
