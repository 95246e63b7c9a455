package model

import "time"

// NotificationTypeComment 有人评论了你的评测
const NotificationTypeComment = 3

// Notification 站内通知
type Notification struct {
	ID          uint    `gorm:"primaryKey"`
	SenderID    string  `gorm:"type:varchar(36);not null"`
	Sender      Account `gorm:"foreignKey:SenderID"`
	RecipientID string  `gorm:"type:varchar(36);index:idx_notification_recipient;not null"`
	Type        int     `gorm:"not null"`
	ReviewID    *uint
	CommentID   *uint
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"index:idx_notification_recipient"`
}

func (Notification) TableName() string { return "notifications" }
