package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"smp-portal/backend/config"
	"smp-portal/backend/internal/api/handler"
	"smp-portal/backend/internal/api/router"
	"smp-portal/backend/internal/client"
	"smp-portal/backend/internal/repository"
	"smp-portal/backend/internal/service"
	"smp-portal/backend/pkg/database"
	"smp-portal/backend/pkg/jwt"
	applogger "smp-portal/backend/pkg/logger"
	"smp-portal/backend/pkg/redis"
	"smp-portal/backend/pkg/storage"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting up",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. Database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("obtain sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// 4. Redis is optional: without it the rate limiter waves requests
	// through.
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. Object store for incident evidence
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := storage.NewClient(storeCtx, &cfg.Storage, logger)
	storeCancel()
	if err != nil {
		logger.Fatal("object store init failed", zap.Error(err))
	}

	// 6. Token verification
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. Peer-service clients for the report aggregator
	if cfg.Services.ServiceToken == "" {
		logger.Warn("services.service_token is empty; peer-service calls will be rejected by the auth guard")
	}
	shiftClient := client.NewShiftClient(cfg.Services.ShiftBaseURL, cfg.Services.ServiceToken)
	incidentClient := client.NewIncidentClient(cfg.Services.IncidentBaseURL, cfg.Services.ServiceToken)
	workplanClient := client.NewWorkplanClient(cfg.Services.WorkplanBaseURL, cfg.Services.ServiceToken)

	// 8. Dependency wiring: Repository -> Service -> Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, store, shiftClient, incidentClient, workplanClient, incidentClient, logger)
	h := handler.NewHandler(svc)

	// 9. Router
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 10. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
