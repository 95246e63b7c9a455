package dto

import (
	"time"

	"github.com/d60-Lab/review-feed/internal/model"
)

// UserSummary 用户简要信息
type UserSummary struct {
	Idx           string `json:"idx"`
	Nickname      string `json:"nickname"`
	ProfileImg    string `json:"profileImg"`
	IsMyFollowing *bool  `json:"isMyFollowing,omitempty"`
}

func NewUserSummary(a model.Account) UserSummary {
	return UserSummary{Idx: a.ID, Nickname: a.Nickname, ProfileImg: a.ProfileImg}
}

type TagResponse struct {
	Idx     uint   `json:"idx"`
	TagName string `json:"tagName"`
}

type ImageResponse struct {
	Idx     uint   `json:"idx"`
	ImgPath string `json:"imgPath"`
	Content string `json:"content"`
}

// ReviewResponse 评测响应；IsMy* 由用户状态叠加层填充
type ReviewResponse struct {
	Idx              uint            `json:"idx"`
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	Score            int             `json:"score"`
	Thumbnail        *string         `json:"thumbnail"`
	ThumbnailContent *string         `json:"thumbnailContent"`
	ViewCount        int64           `json:"viewCount"`
	CommentCount     int64           `json:"commentCount"`
	LikeCount        int64           `json:"likeCount"`
	DislikeCount     int64           `json:"dislikeCount"`
	BookmarkCount    int64           `json:"bookmarkCount"`
	User             UserSummary     `json:"user"`
	Tags             []TagResponse   `json:"tags"`
	Images           []ImageResponse `json:"images"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`

	IsMyLike     bool `json:"isMyLike"`
	IsMyDislike  bool `json:"isMyDislike"`
	IsMyBookmark bool `json:"isMyBookmark"`
	IsMyBlock    bool `json:"isMyBlock"`
}

func NewReviewResponse(r *model.Review) ReviewResponse {
	resp := ReviewResponse{
		Idx:              r.ID,
		Title:            r.Title,
		Content:          r.Content,
		Score:            r.Score,
		Thumbnail:        r.Thumbnail,
		ThumbnailContent: r.ThumbnailContent,
		ViewCount:        r.ViewCount,
		CommentCount:     r.CommentCount,
		LikeCount:        r.LikeCount,
		DislikeCount:     r.DislikeCount,
		BookmarkCount:    r.BookmarkCount,
		User:             NewUserSummary(r.Account),
		Tags:             make([]TagResponse, 0, len(r.Tags)),
		Images:           make([]ImageResponse, 0, len(r.Images)),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, TagResponse{Idx: t.ID, TagName: t.Name})
	}
	for _, img := range r.Images {
		resp.Images = append(resp.Images, ImageResponse{Idx: img.ID, ImgPath: img.Path, Content: img.Caption})
	}
	return resp
}

func NewReviewResponses(rows []model.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewReviewResponse(&rows[i]))
	}
	return out
}

// ReviewPage 分页结果
type ReviewPage struct {
	TotalPage int              `json:"totalPage"`
	Reviews   []ReviewResponse `json:"reviews"`
}

// ReviewInput 创建/修改评测的请求体
type ReviewInput struct {
	Title            string       `json:"title" binding:"required,max=255"`
	Content          string       `json:"content" binding:"required"`
	Score            int          `json:"score" binding:"min=0,max=10"`
	Thumbnail        *string      `json:"thumbnail"`
	ThumbnailContent *string      `json:"thumbnailContent"`
	Tags             []string     `json:"tags" binding:"dive,required,max=64"`
	Images           []ImageInput `json:"images" binding:"dive"`
}

type ImageInput struct {
	Image   string `json:"image" binding:"required"`
	Content string `json:"content"`
}
