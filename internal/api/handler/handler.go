package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/internal/api/middleware"
	"github.com/d60-Lab/review-feed/internal/service"
	"github.com/d60-Lab/review-feed/pkg/response"
)

// Deps handler 依赖的服务
type Deps struct {
	Feed          service.ReviewFeedService
	Reviews       service.ReviewService
	Comments      service.CommentService
	Relations     service.RelationshipService
	Notifications service.NotificationService
	Auth          service.AuthService
	Hub           *service.NotificationHub
}

type Handler struct {
	feedService    service.ReviewFeedService
	reviewService  service.ReviewService
	commentService service.CommentService
	relService     service.RelationshipService
	notifService   service.NotificationService
	authService    service.AuthService
	hub            *service.NotificationHub
	secureCookie   bool
}

func New(d Deps) *Handler {
	return &Handler{
		feedService:    d.Feed,
		reviewService:  d.Reviews,
		commentService: d.Comments,
		relService:     d.Relations,
		notifService:   d.Notifications,
		authService:    d.Auth,
		hub:            d.Hub,
	}
}

// WithSecureCookie 生产环境下 OAuth state cookie 只走 https
func (h *Handler) WithSecureCookie(secure bool) *Handler {
	h.secureCookie = secure
	return h
}

type pageQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=10" binding:"min=1,max=100"`
}

func (q pageQuery) toService() service.PageQuery {
	return service.PageQuery{Page: q.Page, Size: q.Size}
}

func bindPage(c *gin.Context) (service.PageQuery, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return service.PageQuery{}, false
	}
	return q.toService(), true
}

// uintParam 解析路径里的自增 id
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

func viewer(c *gin.Context) string {
	return middleware.UserID(c)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
