package api

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/hourglass/config"
	_ "github.com/d60-Lab/hourglass/docs"
	"github.com/d60-Lab/hourglass/internal/api/handler"
	"github.com/d60-Lab/hourglass/internal/api/middleware"
)

// Options 路由可选组件
type Options struct {
	// Verifier 为 nil 时不校验身份
	Verifier *middleware.TokenVerifier
	Sentry   bool
	Tracing  bool
}

// NewRouter 注册全部路由
func NewRouter(cfg *config.Config, h *handler.Handler, opts Options) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()

	r.Use(middleware.AccessLog(), gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(corsMiddleware(cfg.Server.CORSOrigins), gzip.Gzip(gzip.DefaultCompression))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware())
	}

	r.GET("/healthz", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", middleware.Auth(opts.Verifier))
	{
		users := api.Group("/users")
		users.POST("", h.CreateUser)
		users.GET("/search/:username", h.SearchUser)
		users.GET("/:uid", h.GetUser)
		users.PUT("/:uid/username", h.RenameUser)
		users.PUT("/:uid/profile-image", h.SetProfileImage)

		users.POST("/:uid/follow", h.Follow)
		users.POST("/:uid/unfollow", h.Unfollow)
		users.POST("/:uid/block", h.Block)
		users.POST("/:uid/unblock", h.Unblock)
		users.GET("/:uid/following", h.ListFollowing)
		users.GET("/:uid/followers", h.ListFollowers)
		users.GET("/:uid/blocked", h.ListBlocked)

		users.GET("/:uid/categories", h.ListCategories)
		users.POST("/:uid/categories", h.CreateCategory)
		users.PUT("/:uid/categories/:id", h.UpdateCategory)
		users.DELETE("/:uid/categories/:id", h.DeleteCategory)

		prod := api.Group("/productivity")
		prod.POST("/save", h.SaveSnapshot)
		prod.GET("/feed/:userId", h.Feed)
		prod.GET("/history/:userId", h.History)
		prod.GET("/:userId", h.GetTodaySnapshot)
		prod.GET("/:userId/:date", h.GetSnapshot)
		prod.GET("/:userId/:date/comments", h.ListComments)
		prod.POST("/:userId/:date/comments", h.AddComment)
		prod.POST("/:userId/:date/cheer", h.ToggleCheer)
	}
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AddAllowHeaders("Authorization")
	return cors.New(c)
}
