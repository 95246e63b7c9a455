package service

import (
	"context"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/errcode"
)

type NotificationService interface {
	// List 当前用户收到的通知，发送者标注 isMyFollowing
	List(ctx context.Context, recipientID string, p PageQuery) (*dto.NotificationPage, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	relations     RelationshipService
}

func NewNotificationService(notifications repository.NotificationRepository, relations RelationshipService) NotificationService {
	return &notificationService{notifications: notifications, relations: relations}
}

func (s *notificationService) List(ctx context.Context, recipientID string, p PageQuery) (*dto.NotificationPage, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rows, total, err := s.notifications.ListForRecipient(ctx, recipientID, p.offset(), p.Size)
	if err != nil {
		return nil, errcode.Internal("list notifications", err)
	}
	out := make([]dto.NotificationResponse, 0, len(rows))
	senders := make([]dto.UserSummary, 0, len(rows))
	for i := range rows {
		n := dto.NewNotificationResponse(&rows[i])
		out = append(out, n)
		senders = append(senders, n.Sender)
	}
	if err := s.relations.MarkFollowing(ctx, recipientID, senders); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Sender = senders[i]
	}
	return &dto.NotificationPage{TotalPage: totalPages(total, p.Size), Notifications: out}, nil
}
