package service

import (
	"sync"

	"github.com/d60-Lab/review-feed/internal/dto"
	"github.com/d60-Lab/review-feed/internal/metrics"
)

// NotificationHub 进程内的 SSE 订阅表，按用户分发
type NotificationHub struct {
	mu     sync.RWMutex
	subs   map[string]map[chan dto.NotificationResponse]struct{}
	buffer int
}

func NewNotificationHub(buffer int) *NotificationHub {
	if buffer <= 0 {
		buffer = 16
	}
	return &NotificationHub{subs: make(map[string]map[chan dto.NotificationResponse]struct{}), buffer: buffer}
}

// Subscribe 返回订阅通道和取消函数；取消后通道被关闭
func (h *NotificationHub) Subscribe(userID string) (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse, h.buffer)
	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan dto.NotificationResponse]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()
	metrics.SSEClients.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
			metrics.SSEClients.Dec()
		})
	}
}

// Publish 非阻塞投递，订阅者缓冲区满时丢弃；返回投递成功的订阅数
func (h *NotificationHub) Publish(userID string, n dto.NotificationResponse) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for ch := range h.subs[userID] {
		select {
		case ch <- n:
			delivered++
		default:
		}
	}
	return delivered
}
