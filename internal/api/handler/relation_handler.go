package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userIdx path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/user/{userIdx}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	if err := h.relService.Follow(c.Request.Context(), viewer(c), c.Param("userIdx")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userIdx path string true "被关注用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/user/{userIdx}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	if err := h.relService.Unfollow(c.Request.Context(), viewer(c), c.Param("userIdx")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Block 屏蔽用户
// @Summary 屏蔽用户
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userIdx path string true "被屏蔽用户ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/user/{userIdx}/block [post]
func (h *Handler) Block(c *gin.Context) {
	if err := h.relService.Block(c.Request.Context(), viewer(c), c.Param("userIdx")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Unblock 取消屏蔽
// @Summary 取消屏蔽
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param userIdx path string true "被屏蔽用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/user/{userIdx}/block [delete]
func (h *Handler) Unblock(c *gin.Context) {
	if err := h.relService.Unblock(c.Request.Context(), viewer(c), c.Param("userIdx")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param userIdx path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.UserPage}
// @Failure 404 {object} response.Response
// @Router /api/v1/user/{userIdx}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.relService.ListFollowing(c.Request.Context(), viewer(c), c.Param("userIdx"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Param userIdx path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.UserPage}
// @Failure 404 {object} response.Response
// @Router /api/v1/user/{userIdx}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.relService.ListFollowers(c.Request.Context(), viewer(c), c.Param("userIdx"), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
