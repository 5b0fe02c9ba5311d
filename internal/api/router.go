package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/site-store/config"
	_ "github.com/d60-Lab/site-store/docs"
	"github.com/d60-Lab/site-store/internal/api/handler"
	"github.com/d60-Lab/site-store/internal/api/middleware"
	"github.com/d60-Lab/site-store/pkg/logger"
)

// ErrAdminAuthRequired release 模式下未配置 auth.jwt_secret
var ErrAdminAuthRequired = errors.New("auth.jwt_secret must be set in release mode")

// NewRouter 注册全部路由
func NewRouter(cfg *config.Config, h *handler.Handler) (*gin.Engine, error) {
	if cfg.Server.Mode == gin.ReleaseMode && cfg.Auth.JWTSecret == "" {
		return nil, ErrAdminAuthRequired
	}
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	// 点赞与限流都按 ClientIP 识别访客，只有受信代理的 X-Forwarded-For 才生效
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("server.trusted_proxies: %w", err)
	}
	r.Use(gin.Recovery(), middleware.RequestLogger())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/contact", limiter, h.SubmitMessage)
		v1.POST("/subscribe", limiter, h.Subscribe)
		v1.POST("/unsubscribe/:id", h.Unsubscribe)
		v1.GET("/likes/:slug", h.GetLikes)
		v1.POST("/likes/:slug", h.Like)
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("auth.jwt_secret is empty, admin routes are unauthenticated")
	}
	admin := v1.Group("/admin", middleware.AdminAuth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	{
		msgs := admin.Group("/messages")
		msgs.GET("", h.ListMessages)
		msgs.GET("/stats", h.MessageStats)
		msgs.GET("/stats/detailed", h.MessageDetailedStats)
		msgs.GET("/analytics", h.MessageAnalytics)
		msgs.GET("/:id", h.GetMessage)
		msgs.PATCH("/:id/status", h.UpdateMessageStatus)
		msgs.DELETE("/:id", h.DeleteMessage)

		subs := admin.Group("/subscribers")
		subs.GET("", h.ListSubscribers)
		subs.GET("/stats", h.SubscriberStats)
		subs.GET("/stats/detailed", h.SubscriberDetailedStats)
		subs.GET("/analytics", h.SubscriberAnalytics)
		subs.GET("/:id", h.GetSubscriber)
		subs.PATCH("/:id/status", h.UpdateSubscriberStatus)
		subs.DELETE("/:id", h.DeleteSubscriber)
	}
	return r, nil
}
