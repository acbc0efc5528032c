package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/access"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/auth"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/cache"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/catalog"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/config"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/database"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/engagement"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/handlers"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/logger"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/membership"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/metrics"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/middleware"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/store"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/subscriptions"
	"github.com/MindfulAdmin/mindfulmedia-sub000/internal/telemetry"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.FatalWithFields("Failed to load config", err)
	}

	if err := logger.Initialize(cfg.Log); err != nil {
		logger.FatalWithFields("Failed to initialize logger", err)
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.FatalWithFields("Invalid configuration", err)
	}

	logger.Log.Info("=== MindfulMedia engagement service starting ===",
		zap.String("environment", cfg.Environment),
	)

	tp, err := telemetry.InitTracer(cfg.Telemetry, cfg.Environment)
	if err != nil {
		logger.WarnWithFields("Tracing disabled: failed to initialize tracer", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.WarnWithFields("Failed to flush traces", err)
			}
		}()
	}

	db, err := database.Initialize(cfg.Database, cfg.IsDevelopment())
	if err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if tp != nil {
		if err := database.EnableTracing(db); err != nil {
			logger.WarnWithFields("Database tracing disabled", err)
		}
	}

	st := store.New(db, cfg.Database.TablePrefix)
	if err := st.CreateSchema(context.Background()); err != nil {
		logger.FatalWithFields("Failed to create schema", err)
	}

	countCache := newCountCache(cfg.Redis)
	if closer, ok := countCache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	metrics.Initialize()

	signer := access.NewSigner(cfg.Access.UnlockCookieSalt)
	var memberships access.MembershipProvider
	if cfg.Access.MembershipGating {
		memberships = membership.NewProvider(db, cfg.Database.TablePrefix)
	}

	h := handlers.NewHandlers(handlers.Deps{
		DB:         db,
		Engagement: engagement.NewService(st, countCache, cfg.Engagement),
		Fanout:     subscriptions.NewFanout(st),
		Catalog:    catalog.NewRepository(db, cfg.Database.TablePrefix),
		Gate:       access.NewGate(cfg.Access, signer, memberships),
		Unlocker:   access.NewUnlocker(signer, cfg.Access),
	})
	authService := auth.NewService([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL, st)

	var limiter *middleware.RateLimiter
	if cfg.Server.WritesPerMinute > 0 {
		limiter = middleware.NewRateLimiter(middleware.WriteRateLimitConfig(cfg.Server.WritesPerMinute))
		stop := make(chan struct{})
		defer close(stop)
		go pruneLoop(limiter, stop)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if tp != nil {
		r.Use(middleware.TracingMiddleware(cfg.Telemetry.ServiceName)...)
	}
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = !containsWildcard(cfg.Server.AllowedOrigins)
	r.Use(cors.New(corsConfig))

	h.RegisterRoutes(r, authService, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}
	logger.Log.Info("Server exited")
}

// newCountCache prefers Redis and falls back to process memory when Redis
// is disabled or unreachable
func newCountCache(cfg config.RedisConfig) cache.Cache {
	if !cfg.Enabled {
		logger.Log.Info("Redis disabled, using in-memory count cache")
		return cache.NewMemoryCache()
	}
	rc, err := cache.NewRedisCache(cfg)
	if err != nil {
		logger.WarnWithFields("Redis unavailable, using in-memory count cache", err)
		return cache.NewMemoryCache()
	}
	return rc
}

func pruneLoop(limiter *middleware.RateLimiter, stop <-chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			limiter.Prune()
		case <-stop:
			return
		}
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
