package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/review-feed/config"
	"github.com/d60-Lab/review-feed/internal/api"
	"github.com/d60-Lab/review-feed/internal/api/handler"
	"github.com/d60-Lab/review-feed/internal/auth"
	"github.com/d60-Lab/review-feed/internal/cache"
	"github.com/d60-Lab/review-feed/internal/mail"
	"github.com/d60-Lab/review-feed/internal/repository"
	"github.com/d60-Lab/review-feed/internal/service"
	"github.com/d60-Lab/review-feed/pkg/database"
	"github.com/d60-Lab/review-feed/pkg/logger"
	"github.com/d60-Lab/review-feed/pkg/tracing"
)

// @title Review Feed API
// @version 1.0
// @description 评测分享社区后端
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.Sentry.Environment)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer database.Close(db)
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	rdb, err := database.InitRedis(cfg)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer rdb.Close()

	mailer, err := mail.New(cfg.Email)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	// repositories
	accounts := repository.NewAccountRepository(db)
	follows := repository.NewFollowRepository(db)
	blocks := repository.NewBlockRepository(db)
	verifications := repository.NewEmailVerificationRepository(db)
	reviews := repository.NewReviewRepository(db)
	reactions := repository.NewReactionRepository(db)
	comments := repository.NewCommentRepository(db)
	notifications := repository.NewNotificationRepository(db)

	counter := cache.NewViewCounter(rdb)
	rankings := cache.NewRankingStore(rdb)
	tokens := auth.TokenService{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, Duration: cfg.JWT.TTL}
	hub := service.NewNotificationHub(16)

	// services
	status := service.NewUserStatusService(reactions, blocks, reviews)
	relations := service.NewRelationshipService(accounts, follows, blocks)
	publisher := service.NewNotificationPublisher(db, notifications)
	h := handler.New(handler.Deps{
		Feed:          service.NewReviewFeedService(reviews, accounts, counter, rankings, status),
		Reviews:       service.NewReviewService(reviews, reactions),
		Comments:      service.NewCommentService(comments, reviews, accounts, publisher),
		Relations:     relations,
		Notifications: service.NewNotificationService(notifications, relations),
		Auth:          service.NewAuthService(accounts, verifications, mailer, tokens, auth.NewNaverClient(cfg.OAuth.Naver)),
		Hub:           hub,
	}).WithSecureCookie(cfg.Server.Mode == gin.ReleaseMode)

	// background workers
	stopReconciler := service.NewViewReconciler(counter, reviews, cfg.Feed.ViewFlushInterval, cfg.Feed.ViewFlushBatch).Start()
	stopScheduler := service.NewRankingScheduler(reviews, rankings, cfg.Feed.RankingLimit).Start()
	stopDispatcher := service.NewNotificationDispatcher(notifications, accounts, hub, cfg.Feed.NotifyClaimLimit, cfg.Feed.NotifyPollInterval).Start()

	router, err := api.NewRouter(h, api.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Tokens:      tokens,
		AuthRPS:     cfg.RateLimit.AuthRPS,
		AuthBurst:   cfg.RateLimit.AuthBurst,
		Tracing:     cfg.Tracing.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	// SSE 长连接不会自己结束，超时后直接关闭
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
		_ = srv.Close()
	}
	// 回写器停止时会做最后一次 flush
	for name, stop := range map[string]func(context.Context) error{
		"view reconciler":         stopReconciler,
		"ranking scheduler":       stopScheduler,
		"notification dispatcher": stopDispatcher,
	} {
		if err := stop(shutdownCtx); err != nil {
			logger.Warn("worker stop", zap.String("worker", name), zap.Error(err))
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	return nil
}
