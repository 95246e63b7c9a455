package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/review-feed/internal/model"
	"github.com/d60-Lab/review-feed/internal/repository"
)

// NotificationPublisher 负责事务内写业务数据 + notification outbox
type NotificationPublisher struct {
	db            *gorm.DB
	notifications repository.NotificationRepository
}

func NewNotificationPublisher(db *gorm.DB, notifications repository.NotificationRepository) *NotificationPublisher {
	return &NotificationPublisher{db: db, notifications: notifications}
}

// Publish 在一个事务内执行 write 并落地它返回的事件；write 返回 nil 事件时只提交业务数据
func (p *NotificationPublisher) Publish(ctx context.Context, write func(tx *gorm.DB) (*model.NotificationOutbox, error)) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := write(tx)
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}
		return p.notifications.WithTx(tx).Enqueue(ctx, ev)
	})
}
