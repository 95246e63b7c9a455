package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/review-feed/internal/model"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	// Enqueue 写入一条 pending 的 outbox 事件，通常在业务事务内调用
	Enqueue(ctx context.Context, ev *model.NotificationOutbox) error
	// Claim 认领一批 pending 事件并置为 processing
	Claim(ctx context.Context, limit int) ([]model.NotificationOutbox, error)
	// Deliver 同一事务内写入通知并把事件置为 done
	Deliver(ctx context.Context, ev *model.NotificationOutbox) (*model.Notification, error)
	// Release 处理失败的事件放回 pending
	Release(ctx context.Context, ids []string) error
	ListForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]model.Notification, int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Enqueue(ctx context.Context, ev *model.NotificationOutbox) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.Status = model.OutboxPending
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *notificationRepository) Claim(ctx context.Context, limit int) ([]model.NotificationOutbox, error) {
	var batch []model.NotificationOutbox
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SELECT ... FOR UPDATE SKIP LOCKED（sqlite 忽略该子句）
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", model.OutboxPending).
			Order("created_at").
			Limit(limit).
			Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.NotificationOutbox{}).Where("id IN ?", ids).Update("status", model.OutboxProcessing).Error
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *notificationRepository) Deliver(ctx context.Context, ev *model.NotificationOutbox) (*model.Notification, error) {
	n := &model.Notification{
		SenderID:    ev.SenderID,
		RecipientID: ev.RecipientID,
		Type:        ev.Type,
		ReviewID:    ev.ReviewID,
		CommentID:   ev.CommentID,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender").Create(n).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&model.NotificationOutbox{}).
			Where("id = ?", ev.ID).
			Updates(map[string]any{"status": model.OutboxDone, "processed_at": now}).Error
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *notificationRepository) Release(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.NotificationOutbox{}).
		Where("id IN ?", ids).
		Update("status", model.OutboxPending).Error
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, recipientID string, offset, limit int) ([]model.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, total, err
}
