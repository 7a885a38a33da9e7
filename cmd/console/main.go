package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/timetable-workspace/api/swagger"
	"github.com/noah-isme/timetable-workspace/internal/handler"
	internalmiddleware "github.com/noah-isme/timetable-workspace/internal/middleware"
	"github.com/noah-isme/timetable-workspace/internal/repository"
	"github.com/noah-isme/timetable-workspace/internal/service"
	"github.com/noah-isme/timetable-workspace/pkg/cache"
	"github.com/noah-isme/timetable-workspace/pkg/config"
	"github.com/noah-isme/timetable-workspace/pkg/database"
	"github.com/noah-isme/timetable-workspace/pkg/jobs"
	"github.com/noah-isme/timetable-workspace/pkg/logger"
	corsmiddleware "github.com/noah-isme/timetable-workspace/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/timetable-workspace/pkg/middleware/requestid"
	"github.com/noah-isme/timetable-workspace/pkg/storage"
	"github.com/noah-isme/timetable-workspace/pkg/timetableapi"
)

// @title Timetable Workspace API
// @version 0.1.0
// @description Dataset editing and validation console for the academic timetable service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	var checks []handler.HealthCheck
	var cacheSvc *service.CacheService
	if cfg.Metadata.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, metadata cache disabled", zap.Error(err))
		} else {
			checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			}})
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Metadata.CacheTTL, logr, true)
		}
	}

	auditSvc := service.NewAuditService(nil, nil, logr)
	var auditQueue *jobs.Queue
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		checks = append(checks, handler.HealthCheck{Name: "audit_db", Check: db.PingContext})
		if err := database.EnsureAuditSchema(context.Background(), db); err != nil {
			logr.Fatal("failed to prepare audit schema", zap.Error(err))
		}
		auditSvc = service.NewAuditService(repository.NewAuditRepository(db), nil, logr)
		auditQueue = jobs.NewQueue("audit", auditSvc.Handle, jobs.QueueConfig{
			Workers:    cfg.Audit.Workers,
			MaxRetries: cfg.Audit.Retries,
			Logger:     logr,
		})
		auditSvc.AttachQueue(auditQueue)
	}

	upstream := timetableapi.New(timetableapi.Config{
		BaseURL: cfg.Upstream.BaseURL,
		HTTPClient: &http.Client{
			Timeout:   cfg.Upstream.Timeout,
			Transport: metrics.UpstreamTransport(http.DefaultTransport),
		},
	})

	checks = append(checks, handler.HealthCheck{Name: "upstream", Check: upstream.Ping})

	metadataSvc := service.NewMetadataService(upstream, cacheSvc, cfg.Metadata.CacheTTL, logr)
	sessionSvc := service.NewSessionService(upstream, metadataSvc, auditSvc, metrics, logr, service.SessionServiceConfig{
		IdleTTL:               cfg.Workspace.SessionTTL,
		BulkDeleteConcurrency: cfg.Workspace.BulkDeleteConcurrency,
		ToastDuration:         cfg.Workspace.ToastDuration,
	})
	analyticsSvc := service.NewAnalyticsService(upstream, logr)
	mappingSvc := service.NewMappingService(upstream, auditSvc, logr)
	timetableSvc := service.NewTimetableService(upstream, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Downloads.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare download storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Downloads.SignedURLSecret, cfg.Downloads.SignedURLTTL)
	exportSvc := service.NewExportService(fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Downloads.SignedURLTTL,
	}, logr, nil, nil)

	housekeeping := service.NewHousekeepingService(sessionSvc, exportSvc, auditSvc, logr, service.HousekeepingConfig{
		Schedule:       cfg.Housekeeping.Schedule,
		ExportTTL:      cfg.Downloads.SignedURLTTL,
		AuditRetention: cfg.Audit.Retention,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics", "/health"))
	r.Use(internalmiddleware.SessionContext())

	metricsHandler := handler.NewMetricsHandler(metrics, checks...)
	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	scoped := api.Group("/workspaces/:"+internalmiddleware.SessionParam, internalmiddleware.Workspace(sessionSvc))

	handler.NewWorkspaceHandler(sessionSvc, validate).Register(api, scoped)
	handler.NewTransferHandler(validate).Register(scoped)
	handler.NewAnalyticsHandler(analyticsSvc, exportSvc).Register(api, scoped)
	handler.NewMetadataHandler(metadataSvc, sessionSvc).Register(api)
	handler.NewMappingHandler(mappingSvc, validate).Register(api)
	handler.NewTimetableHandler(timetableSvc).Register(api)
	handler.NewAuditHandler(auditSvc, validate).Register(api)
	api.GET("/system/metrics", metricsHandler.Snapshot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if auditQueue != nil {
		auditQueue.Start(context.Background())
		defer auditQueue.Stop()
	}
	if err := housekeeping.Start(); err != nil {
		logr.Fatal("failed to start housekeeping", zap.Error(err))
	}
	defer housekeeping.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", upstream.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}
