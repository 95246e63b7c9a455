package dto

import (
	"time"

	"github.com/d60-Lab/review-feed/internal/model"
)

type CommentResponse struct {
	Idx         uint          `json:"idx"`
	ReviewIdx   uint          `json:"reviewIdx"`
	CommentIdx  *uint         `json:"commentIdx"`
	Content     string        `json:"content"`
	User        UserSummary   `json:"user"`
	TaggedUsers []UserSummary `json:"tagUsers"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func NewCommentResponse(c *model.Comment) CommentResponse {
	resp := CommentResponse{
		Idx:         c.ID,
		ReviewIdx:   c.ReviewID,
		CommentIdx:  c.ParentID,
		Content:     c.Content,
		User:        NewUserSummary(c.Account),
		TaggedUsers: make([]UserSummary, 0, len(c.TaggedUsers)),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, u := range c.TaggedUsers {
		resp.TaggedUsers = append(resp.TaggedUsers, NewUserSummary(u))
	}
	return resp
}

type CommentPage struct {
	TotalPage int               `json:"totalPage"`
	Comments  []CommentResponse `json:"comments"`
}

type CommentInput struct {
	Content    string   `json:"content" binding:"required"`
	CommentIdx *uint    `json:"commentIdx"`
	UserIdxs   []string `json:"userIdxs" binding:"dive,uuid"`
}

type CommentUpdateInput struct {
	Content string `json:"content" binding:"required"`
}
