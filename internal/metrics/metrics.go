// Package metrics Prometheus 指标，统一在 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
	RateLimitExceededTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_exceeded_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	// 浏览数回写
	ViewFlushKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_view_flush_keys_total",
			Help: "View counter keys processed by the reconciler",
		},
		[]string{"result"}, // flushed, failed, skipped
	)
	ViewFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "review_view_flush_duration_seconds",
			Help:    "Duration of one reconciler run",
			Buckets: prometheus.DefBuckets,
		},
	)

	// 热榜/冷榜
	RankingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_ranking_snapshots_total",
			Help: "Ranking snapshots written per polarity and window",
		},
		[]string{"polarity", "window", "result"},
	)
	RankingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "review_ranking_last_success_timestamp_seconds",
			Help: "Unix time of the last ranking run without errors",
		},
	)

	// 通知
	NotificationsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_dispatched_total",
			Help: "Outbox events turned into notifications",
		},
		[]string{"result"},
	)
	SSEClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_sse_clients",
			Help: "Connected SSE subscribers",
		},
	)

	// 社交行为
	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_reactions_total",
			Help: "Reaction edges added or removed",
		},
		[]string{"kind", "op"},
	)
	CommentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "review_comments_created_total",
			Help: "Comments created",
		},
	)
)
