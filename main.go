package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leavehub/portal-gateway/internal/handler"
	"github.com/leavehub/portal-gateway/internal/middleware"
	"github.com/leavehub/portal-gateway/internal/notify"
	"github.com/leavehub/portal-gateway/internal/proxy"
	"github.com/leavehub/portal-gateway/internal/session"
	"github.com/leavehub/portal-gateway/internal/token"
	"github.com/leavehub/portal-gateway/pkg/config"
	"github.com/leavehub/portal-gateway/pkg/logger"
	pkgredis "github.com/leavehub/portal-gateway/pkg/redis"
	"github.com/leavehub/portal-gateway/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting portal gateway...")

	ctx := context.Background()

	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		log.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	// Session store: redis when reachable, in-memory otherwise. The
	// gateway stays up either way; only session durability changes.
	var redis *pkgredis.Client
	var store session.Store = session.NewMemoryStore()
	if cfg.Redis.Enabled {
		redisCfg := &pkgredis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: 2 * time.Second,
		}
		redis, err = pkgredis.NewClient(ctx, redisCfg)
		if err != nil {
			log.Warn("Redis connection failed, falling back to in-memory session store")
		} else {
			defer redis.Close()
			store = session.NewRedisStore(redis, cfg.App.Name)
			log.Info("Redis connected")
		}
	}

	// Session-expired broadcast: the checker triggers it, interested
	// components observe it. The gateway process itself just records
	// the forced logout.
	notifier := notify.NewNotifier()
	cancelObserver := notifier.Observe(func() {
		log.Info("Session expired, re-authentication required")
	})
	defer cancelObserver()

	checker := token.NewChecker(store, notifier, log, cfg.Session.CheckInterval, cfg.Session.ExpiryWarning)
	checkerCtx, stopChecker := context.WithCancel(ctx)
	defer stopChecker()
	go checker.Run(checkerCtx)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.RouteGuard())

	healthHandler := handler.NewHealthHandler(redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	gateway := proxy.New(proxy.Config{
		BackendURL:     cfg.Backend.URL,
		DefaultTimeout: cfg.Backend.Timeout,
	}, store, log)

	// Every /api route goes through the gateway
	router.NoRoute(gateway.Handler())

	log.Info(fmt.Sprintf("Proxy configured: backend=%s", cfg.Backend.URL))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info(fmt.Sprintf("Portal gateway listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	log.Info("Server exited gracefully")
}
