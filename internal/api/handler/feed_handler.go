package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/service"
	"github.com/d60-Lab/review-feed/pkg/errcode"
	"github.com/d60-Lab/review-feed/pkg/response"
)

type allReviewsQuery struct {
	pageQuery
	Timeframe string   `form:"timeframe,default=all" binding:"timeframe"`
	UserIdx   string   `form:"userIdx" binding:"omitempty,uuid"`
	UserIdxs  []string `form:"userIdxs" binding:"omitempty,dive,uuid"`
}

type rankedQuery struct {
	pageQuery
	Window string `form:"window,default=7D" binding:"window"`
}

type searchQuery struct {
	pageQuery
	Search string `form:"search" binding:"required"`
}

type userQuery struct {
	pageQuery
	UserIdx string `form:"userIdx" binding:"omitempty,uuid"`
}

type usersQuery struct {
	pageQuery
	UserIdxs []string `form:"userIdxs" binding:"required,dive,uuid"`
}

// ListAll 全部评测
// @Summary 全部评测
// @Tags 评测
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Param timeframe query string false "时间范围" Enums(1D, 7D, 1M, 1Y, all)
// @Param userIdx query string false "作者ID"
// @Param userIdxs query []string false "作者ID列表"
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/all [get]
func (h *Handler) ListAll(c *gin.Context) {
	var q allReviewsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.feedService.ListAll(c.Request.Context(), viewer(c), service.AllReviewsQuery{
		PageQuery: q.toService(),
		Timeframe: q.Timeframe,
		UserID:    q.UserIdx,
		UserIDs:   q.UserIdxs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListFollowingReviews 关注的人发布的评测
// @Summary 关注流
// @Tags 评测
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Failure 401 {object} response.Response
// @Router /api/v1/review/following [get]
func (h *Handler) ListFollowingReviews(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.feedService.ListFollowing(c.Request.Context(), viewer(c), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// Search 按标题、内容、昵称、标签搜索
// @Summary 搜索评测
// @Tags 评测
// @Produce json
// @Param search query string true "关键词"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Failure 400 {object} response.Response
// @Router /api/v1/review/search [get]
func (h *Handler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.feedService.Search(c.Request.Context(), viewer(c), q.Search, q.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

func (h *Handler) ranked(c *gin.Context, polarity cache.Polarity) {
	var q rankedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.feedService.ListRanked(c.Request.Context(), viewer(c), polarity, q.Window, q.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListHot 点赞最多
// @Summary 热门评测
// @Tags 评测
// @Produce json
// @Param window query string false "统计窗口" Enums(1D, 7D, 30D) default(7D)
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Router /api/v1/review/hot [get]
func (h *Handler) ListHot(c *gin.Context) { h.ranked(c, cache.Hot) }

// ListCold 踩最多
// @Summary 冷门评测
// @Tags 评测
// @Produce json
// @Param window query string false "统计窗口" Enums(1D, 7D, 30D) default(7D)
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Router /api/v1/review/cold [get]
func (h *Handler) ListCold(c *gin.Context) { h.ranked(c, cache.Cold) }

type userFeed func(ctx context.Context, viewerID, userID string, p service.PageQuery) (*dto.ReviewPage, error)

// byUser 未指定 userIdx 时取当前登录用户
func (h *Handler) byUser(c *gin.Context, load userFeed) {
	var q userQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	userID := q.UserIdx
	if userID == "" {
		userID = viewer(c)
	}
	if userID == "" {
		response.Error(c, errcode.Unauthorized("login required"))
		return
	}
	page, err := load(c.Request.Context(), viewer(c), userID, q.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListBookmarked 收藏的评测
// @Summary 收藏列表
// @Tags 评测
// @Produce json
// @Param userIdx query string false "用户ID，缺省为当前用户"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/bookmarked [get]
func (h *Handler) ListBookmarked(c *gin.Context) {
	h.byUser(c, h.feedService.ListBookmarked)
}

// ListCommented 评论过的评测
// @Summary 评论过的评测
// @Tags 评测
// @Produce json
// @Param userIdx query string false "用户ID，缺省为当前用户"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Router /api/v1/review/commented [get]
func (h *Handler) ListCommented(c *gin.Context) {
	h.byUser(c, h.feedService.ListCommented)
}

// ListLiked 点赞过的评测
// @Summary 点赞过的评测
// @Tags 评测
// @Produce json
// @Param userIdx query string false "用户ID，缺省为当前用户"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Router /api/v1/review/liked [get]
func (h *Handler) ListLiked(c *gin.Context) {
	h.byUser(c, h.feedService.ListLiked)
}

// ListLatest 指定用户们的最新评测
// @Summary 指定用户的最新评测
// @Tags 评测
// @Produce json
// @Param userIdxs query []string true "用户ID列表"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.ReviewPage}
// @Router /api/v1/review/latest [get]
func (h *Handler) ListLatest(c *gin.Context) {
	var q usersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, err := h.feedService.ListLatestByUsers(c.Request.Context(), viewer(c), q.UserIdxs, q.toService())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
