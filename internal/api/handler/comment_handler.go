package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/pkg/response"
)

// ListComments 评测下的评论
// @Summary 评论列表
// @Tags 评论
// @Produce json
// @Param reviewIdx path int true "评测ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.CommentPage}
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx}/comment/all [get]
func (h *Handler) ListComments(c *gin.Context) {
	reviewID, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	p, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.commentService.List(c.Request.Context(), reviewID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// GetComment 单条评论
// @Summary 评论详情
// @Tags 评论
// @Produce json
// @Param reviewIdx path int true "评测ID"
// @Param commentIdx path int true "评论ID"
// @Success 200 {object} response.Response{data=dto.CommentResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx}/comment/{commentIdx} [get]
func (h *Handler) GetComment(c *gin.Context) {
	reviewID, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	commentID, ok := uintParam(c, "commentIdx")
	if !ok {
		return
	}
	comment, err := h.commentService.Get(c.Request.Context(), reviewID, commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

// CreateComment 发表评论，评论他人评测时通知作者
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewIdx path int true "评测ID"
// @Param request body dto.CommentInput true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentResponse}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/review/{reviewIdx}/comment [post]
func (h *Handler) CreateComment(c *gin.Context) {
	reviewID, ok := uintParam(c, "reviewIdx")
	if !ok {
		return
	}
	var req dto.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.commentService.Create(c.Request.Context(), viewer(c), reviewID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// UpdateComment 修改评论
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentIdx path int true "评论ID"
// @Param request body dto.CommentUpdateInput true "评论内容"
// @Success 200 {object} response.Response{data=dto.CommentResponse}
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/comment/{commentIdx} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	commentID, ok := uintParam(c, "commentIdx")
	if !ok {
		return
	}
	var req dto.CommentUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	comment, err := h.commentService.Update(c.Request.Context(), viewer(c), commentID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags 评论
// @Produce json
// @Security BearerAuth
// @Param commentIdx path int true "评论ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/comment/{commentIdx} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, ok := uintParam(c, "commentIdx")
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), viewer(c), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
