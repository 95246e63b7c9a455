package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/pkg/response"
)

// GetReview 评测详情，浏览数 +1
// @Summary 评测详情
// @Tags 评测
// @Produce json
// @Param reviewIdx path int true "评测ID"
// @Success 200 {object} response.Response{data=dto.ReviewResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx} [get]
func (h *Handler) GetReview(c *gin.Context) {
	id, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	review, err := h.feedService.GetDetail(c.Request.Context(), viewer(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

// CreateReview 发布评测
// @Summary 发布评测
// @Tags 评测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ReviewInput true "评测内容"
// @Success 201 {object} response.Response{data=dto.ReviewResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/review [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req dto.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), viewer(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// UpdateReview 修改评测，只有作者可以修改
// @Summary 修改评测
// @Tags 评测
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewIdx path int true "评测ID"
// @Param request body dto.ReviewInput true "评测内容"
// @Success 200 {object} response.Response{data=dto.ReviewResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx} [put]
func (h *Handler) UpdateReview(c *gin.Context) {
	id, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	var req dto.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	review, err := h.reviewService.Update(c.Request.Context(), viewer(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview 软删除评测
// @Summary 删除评测
// @Tags 评测
// @Produce json
// @Security BearerAuth
// @Param reviewIdx path int true "评测ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	id, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), viewer(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// React 返回点赞/点踩/收藏的添加或撤销 handler
// @Summary 点赞/点踩/收藏
// @Tags 评测
// @Produce json
// @Security BearerAuth
// @Param reviewIdx path int true "评测ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx}/like [post]
// @Router /api/v1/review/{reviewIdx}/like [delete]
// @Router /api/v1/review/{reviewIdx}/dislike [post]
// @Router /api/v1/review/{reviewIdx}/dislike [delete]
// @Router /api/v1/review/{reviewIdx}/bookmark [post]
// @Router /api/v1/review/{reviewIdx}/bookmark [delete]
func (h *Handler) React(kind repository.ReactionKind, on bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "reviewIdx")
		if !ok {
			return
		}
		if err := h.reviewService.React(c.Request.Context(), viewer(c), id, kind, on); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, nil)
	}
}
