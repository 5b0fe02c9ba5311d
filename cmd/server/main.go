package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/d60-Lab/site-store/config"
	"github.com/d60-Lab/site-store/internal/api"
	"github.com/d60-Lab/site-store/internal/api/handler"
	"github.com/d60-Lab/site-store/internal/repository"
	"github.com/d60-Lab/site-store/internal/service"
	"github.com/d60-Lab/site-store/pkg/database"
	"github.com/d60-Lab/site-store/pkg/logger"
	"github.com/d60-Lab/site-store/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// @title site-store API
// @version 1.0
// @description 联系消息、订阅者与点赞计数的 Redis 索引存储
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 本地开发时从 .env 注入 SITE_STORE_* 环境变量，已存在的变量不覆盖
	_ = godotenv.Load()
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	rdb, err := database.InitRedis(cfg)
	if err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	prometheus.MustRegister(repository.Collectors()...)

	// repositories & services
	repairer := service.NewIndexRepairer(cfg.Store.RepairQueue)
	opts := []repository.Option{
		repository.WithKeyPrefix(cfg.Redis.KeyPrefix),
		repository.WithOpTimeout(cfg.Store.OpTimeout),
		repository.WithSearchScope(repository.SearchScope(cfg.Store.SearchScope)),
		repository.WithTrendDays(cfg.Store.TrendDays),
		repository.WithMaxRetries(cfg.Store.MaxRetries),
		repository.WithLikeCap(cfg.Likes.PerActorCap),
		repository.WithDriftHandler(repairer.Enqueue),
	}
	msgRepo := repository.NewMessageRepository(rdb, opts...)
	subRepo := repository.NewSubscriberRepository(rdb, opts...)
	likes := repository.NewLikeCounter(rdb, opts...)
	repairer.Register("message", msgRepo)
	repairer.Register("subscriber", subRepo)
	stopRepairer := repairer.Start(cfg.Store.RepairWorkers)

	h := handler.NewHandler(
		service.NewMessageService(msgRepo),
		service.NewSubscriberService(subRepo),
		service.NewLikeService(likes),
		cfg.Privacy.IPSalt,
	)

	router, err := api.NewRouter(cfg, h)
	if err != nil {
		logger.Fatal("router init failed", zap.Error(err))
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	_ = stopRepairer(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}
