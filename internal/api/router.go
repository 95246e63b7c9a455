package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/d60-Lab/review-feed/docs"
	"github.com/d60-Lab/review-feed/internal/api/handler"
	"github.com/d60-Lab/review-feed/internal/api/middleware"
	"github.com/d60-Lab/review-feed/internal/auth"
	"github.com/d60-Lab/review-feed/internal/repository"
)

// Options 路由需要的外部参数
type Options struct {
	ServiceName string
	Tokens      auth.TokenService
	AuthRPS     float64
	AuthBurst   int
	// Tracing 为 false 时不挂 otelgin
	Tracing bool
}

// NewRouter 注册中间件与全部路由
func NewRouter(h *handler.Handler, opts Options) (*gin.Engine, error) {
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	if opts.Tracing {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(middleware.AccessLog())
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/sse", "/metrics"})))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := middleware.RequireAuth(opts.Tokens)
	optionalAuth := middleware.OptionalAuth(opts.Tokens)
	limiter := middleware.NewIPRateLimiter(opts.AuthRPS, opts.AuthBurst)

	v1 := r.Group("/api/v1")

	authGroup := v1.Group("/auth", limiter.Middleware())
	{
		authGroup.POST("/email/send", h.SendEmailCode)
		authGroup.POST("/email/verify", h.VerifyEmail)
		authGroup.POST("/signup", h.Signup)
		authGroup.POST("/signin", h.Signin)
		authGroup.GET("/naver", h.NaverLogin)
		authGroup.GET("/naver/callback", h.NaverCallback)
	}

	review := v1.Group("/review")
	{
		review.GET("/all", optionalAuth, h.ListAll)
		review.GET("/following", requireAuth, h.ListFollowingReviews)
		review.GET("/search", optionalAuth, h.Search)
		review.GET("/hot", optionalAuth, h.ListHot)
		review.GET("/cold", optionalAuth, h.ListCold)
		review.GET("/bookmarked", optionalAuth, h.ListBookmarked)
		review.GET("/commented", optionalAuth, h.ListCommented)
		review.GET("/liked", optionalAuth, h.ListLiked)
		review.GET("/latest", optionalAuth, h.ListLatest)
		review.GET("/:reviewIdx", optionalAuth, h.GetReview)

		review.POST("", requireAuth, h.CreateReview)
		review.PUT("/:reviewIdx", requireAuth, h.UpdateReview)
		review.DELETE("/:reviewIdx", requireAuth, h.DeleteReview)

		review.POST("/:reviewIdx/like", requireAuth, h.React(repository.ReactionLike, true))
		review.DELETE("/:reviewIdx/like", requireAuth, h.React(repository.ReactionLike, false))
		review.POST("/:reviewIdx/dislike", requireAuth, h.React(repository.ReactionDislike, true))
		review.DELETE("/:reviewIdx/dislike", requireAuth, h.React(repository.ReactionDislike, false))
		review.POST("/:reviewIdx/bookmark", requireAuth, h.React(repository.ReactionBookmark, true))
		review.DELETE("/:reviewIdx/bookmark", requireAuth, h.React(repository.ReactionBookmark, false))

		review.GET("/:reviewIdx/comment/all", h.ListComments)
		review.GET("/:reviewIdx/comment/:commentIdx", h.GetComment)
		review.POST("/:reviewIdx/comment", requireAuth, h.CreateComment)
	}

	comment := v1.Group("/comment", requireAuth)
	{
		comment.PUT("/:commentIdx", h.UpdateComment)
		comment.DELETE("/:commentIdx", h.DeleteComment)
	}

	user := v1.Group("/user")
	{
		user.GET("/notification/all", requireAuth, h.ListNotifications)
		user.POST("/:userIdx/follow", requireAuth, h.Follow)
		user.DELETE("/:userIdx/follow", requireAuth, h.Unfollow)
		user.POST("/:userIdx/block", requireAuth, h.Block)
		user.DELETE("/:userIdx/block", requireAuth, h.Unblock)
		user.GET("/:userIdx/following", optionalAuth, h.ListFollowing)
		user.GET("/:userIdx/followers", optionalAuth, h.ListFollowers)
	}

	v1.GET("/sse", requireAuth, h.Subscribe)

	return r, nil
}
