package service

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/logger"
)

// NotificationDispatcher 从 outbox 拉取 notification.create 事件，写入通知并推送给在线用户
type NotificationDispatcher struct {
	notifications repository.NotificationRepository
	accounts      repository.AccountRepository
	hub           *NotificationHub
	claimLimit    int
	pollInterval  time.Duration
}

func NewNotificationDispatcher(
	notifications repository.NotificationRepository,
	accounts repository.AccountRepository,
	hub *NotificationHub,
	claimLimit int,
	pollInterval time.Duration,
) *NotificationDispatcher {
	if claimLimit <= 0 {
		claimLimit = 64
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &NotificationDispatcher{
		notifications: notifications,
		accounts:      accounts,
		hub:           hub,
		claimLimit:    claimLimit,
		pollInterval:  pollInterval,
	}
}

// Start 启动轮询；返回停止函数。
func (d *NotificationDispatcher) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(d.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := d.ProcessOnce(context.Background()); err != nil {
					logger.Warn("notification dispatch failed", zap.Error(err))
				}
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ProcessOnce 认领一批 pending 事件并逐条投递，返回成功条数。失败的事件放回 pending。
func (d *NotificationDispatcher) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := d.notifications.Claim(ctx, d.claimLimit)
	if err != nil {
		return 0, err
	}
	delivered := 0
	var failed []string
	for i := range batch {
		ev := &batch[i]
		n, err := d.notifications.Deliver(ctx, ev)
		if err != nil {
			failed = append(failed, ev.ID)
			metrics.NotificationsDispatchedTotal.WithLabelValues("failed").Inc()
			logger.Warn("deliver notification failed", zap.String("outbox_id", ev.ID), zap.Error(err))
			sentry.CaptureException(err)
			continue
		}
		delivered++
		metrics.NotificationsDispatchedTotal.WithLabelValues("ok").Inc()

		if sender, err := d.accounts.GetByID(ctx, n.SenderID); err == nil {
			n.Sender = *sender
		} else {
			n.Sender.ID = n.SenderID
		}
		d.hub.Publish(n.RecipientID, dto.NewNotificationResponse(n))

		if !ev.CreatedAt.IsZero() {
			logger.Debug("notification delivered",
				zap.String("recipient", n.RecipientID),
				zap.Duration("latency", time.Since(ev.CreatedAt)))
		}
	}
	if err := d.notifications.Release(ctx, failed); err != nil {
		logger.Error("release outbox events failed", zap.Strings("ids", failed), zap.Error(err))
	}
	return delivered, nil
}
