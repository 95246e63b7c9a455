package model

import "time"

const (
	OutboxPending    = "pending"
	OutboxProcessing = "processing"
	OutboxDone       = "done"
)

// NotificationOutbox notification.create 事件外发盒，和业务数据同事务写入
type NotificationOutbox struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	SenderID    string `gorm:"type:varchar(36);not null"`
	RecipientID string `gorm:"type:varchar(36);not null"`
	Type        int    `gorm:"not null"`
	ReviewID    *uint
	CommentID   *uint
	Status      string    `gorm:"type:varchar(16);index"` // pending, processing, done
	CreatedAt   time.Time `gorm:"index"`
	ProcessedAt *time.Time
}

func (NotificationOutbox) TableName() string { return "notification_outbox" }
