package dto

import (
	"time"

	"github.com/d60-Lab/review-feed/internal/model"
)

type UserPage struct {
	TotalPage int           `json:"totalPage"`
	Users     []UserSummary `json:"users"`
}

type NotificationResponse struct {
	Idx        uint        `json:"idx"`
	Type       int         `json:"type"`
	ReviewIdx  *uint       `json:"reviewIdx"`
	CommentIdx *uint       `json:"commentIdx"`
	Sender     UserSummary `json:"user"`
	ReadAt     *time.Time  `json:"readAt"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func NewNotificationResponse(n *model.Notification) NotificationResponse {
	return NotificationResponse{
		Idx:        n.ID,
		Type:       n.Type,
		ReviewIdx:  n.ReviewID,
		CommentIdx: n.CommentID,
		Sender:     NewUserSummary(n.Sender),
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

type NotificationPage struct {
	TotalPage     int                    `json:"totalPage"`
	Notifications []NotificationResponse `json:"notifications"`
}

type SendEmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyEmailInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  int    `json:"code" binding:"required,min=100000,max=999999"`
}

type SignupInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"pw" binding:"required,min=8,max=72"`
	Nickname   string `json:"nickname" binding:"required,max=64"`
	ProfileImg string `json:"profileImg"`
}

type SigninInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"pw" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}
