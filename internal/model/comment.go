package model

import (
	"time"

	"gorm.io/gorm"
)

// Comment 评论，ParentID 非空时为楼中楼回复
type Comment struct {
	ID          uint      `gorm:"primaryKey"`
	ReviewID    uint      `gorm:"index:idx_comment_review;not null"`
	ParentID    *uint     `gorm:"index"`
	AccountID   string    `gorm:"type:varchar(36);index:idx_comment_account;not null"`
	Account     Account   `gorm:"foreignKey:AccountID"`
	Content     string    `gorm:"type:text;not null"`
	TaggedUsers []Account `gorm:"many2many:comment_tagged_users;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) State() State { return stateOf(c.DeletedAt) }
