package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/printflow/backend/internal/application/billing"
	documentapp "github.com/printflow/backend/internal/application/document"
	"github.com/printflow/backend/internal/application/notify"
	productionapp "github.com/printflow/backend/internal/application/production"
	projectapp "github.com/printflow/backend/internal/application/project"
	"github.com/printflow/backend/internal/infrastructure/auth"
	"github.com/printflow/backend/internal/infrastructure/cache"
	"github.com/printflow/backend/internal/infrastructure/config"
	"github.com/printflow/backend/internal/infrastructure/event"
	"github.com/printflow/backend/internal/infrastructure/logger"
	"github.com/printflow/backend/internal/infrastructure/notifier"
	"github.com/printflow/backend/internal/infrastructure/persistence"
	"github.com/printflow/backend/internal/infrastructure/storage"
	"github.com/printflow/backend/internal/interfaces/http/handler"
	"github.com/printflow/backend/internal/interfaces/http/middleware"
	"github.com/printflow/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting printflow backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Idempotency store: Redis when reachable, in-memory otherwise
	var idempotency billingapp.IdempotencyStore
	redisStore, err := cache.NewRedisIdempotencyStore(cfg.Redis)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		memStore := cache.NewInMemoryIdempotencyStore()
		defer func() { _ = memStore.Close() }()
		idempotency = memStore
	} else {
		defer func() { _ = redisStore.Close() }()
		idempotency = redisStore
	}

	// Object storage: S3 when configured, in-memory otherwise
	var objectStorage documentapp.ObjectStorage
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		cancel()
		objectStorage = s3Storage
	} else {
		log.Warn("No storage bucket configured, using in-memory object storage")
		objectStorage = storage.NewInMemoryObjectStorage()
	}

	// Event bus and notification dispatcher
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = eventBus.Stop(ctx)
	}()

	dispatcher := notify.NewDispatcher(notifier.NewLogNotifier(log), log)
	dispatcher.Register(eventBus)

	// Repositories
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	jobRepo := persistence.NewGormPrintJobRepository(db.DB)
	checkRepo := persistence.NewGormQualityCheckRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	fileRepo := persistence.NewGormFileRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)

	// Application services
	projectService := projectapp.NewProjectService(projectRepo, taskRepo, eventBus, log)
	productionService := productionapp.NewProductionService(jobRepo, checkRepo, sequenceRepo, eventBus, log)
	billingService := billingapp.NewBillingService(invoiceRepo, sequenceRepo, idempotency, eventBus, log)
	documentService := documentapp.NewDocumentService(fileRepo, objectStorage, eventBus, log)

	// Background overdue sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Billing.OverdueSweepEnabled {
		go runOverdueSweep(sweepCtx, billingService, cfg.Billing, log)
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg)),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	if cfg.JWT.Secret != "" {
		engine.Use(middleware.JWTAuthMiddleware(jwtService))
	} else {
		log.Warn("JWT secret not configured, authentication disabled")
	}

	router.NewRouter(engine).
		RegisterRoot(handler.NewSystemHandler(db, version)).
		Register(handler.NewProjectHandler(projectService)).
		Register(handler.NewProductionHandler(productionService)).
		Register(handler.NewBillingHandler(billingService)).
		Register(handler.NewDocumentHandler(documentService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// runOverdueSweep periodically flags overdue invoices so follow-up work
// does not depend on a client reading each invoice.
func runOverdueSweep(ctx context.Context, billing *billingapp.BillingService, cfg config.BillingConfig, log *zap.Logger) {
	interval := cfg.OverdueSweepInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("Overdue invoice sweep enabled", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flagged, err := billing.SweepOverdue(ctx, cfg.OverdueSweepLimit)
			if err != nil {
				log.Error("Overdue sweep failed", zap.Error(err))
				continue
			}
			if flagged > 0 {
				log.Info("Overdue sweep completed", zap.Int("flagged", flagged))
			}
		}
	}
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
