package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/review-feed/internal/metrics"
	"github.com/d60-Lab/review-feed/pkg/response"
)

const sseHeartbeat = 30 * time.Second

// ListNotifications 当前用户的通知
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=dto.NotificationPage}
// @Failure 401 {object} response.Response
// @Router /api/v1/user/notification/all [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	p, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.notifService.List(c.Request.Context(), viewer(c), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}

// Subscribe SSE 推送新通知，连接期间定时发心跳
// @Summary 通知推送（SSE）
// @Tags 通知
// @Produce text/event-stream
// @Security BearerAuth
// @Param token query string false "EventSource 无法设置请求头时使用"
// @Success 200
// @Router /api/v1/sse [get]
func (h *Handler) Subscribe(c *gin.Context) {
	events, cancel := h.hub.Subscribe(viewer(c))
	defer cancel()
	metrics.SSEClients.Inc()
	defer metrics.SSEClients.Dec()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("connected", gin.H{"userIdx": viewer(c)})
	c.Writer.Flush()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case n, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", n)
			return true
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().Unix())
			return true
		}
	})
}
