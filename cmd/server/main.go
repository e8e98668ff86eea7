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

	syncapp "github.com/printsync/backend/internal/application/sync"
	"github.com/printsync/backend/internal/domain/sync"
	"github.com/printsync/backend/internal/infrastructure/cache"
	"github.com/printsync/backend/internal/infrastructure/config"
	"github.com/printsync/backend/internal/infrastructure/logger"
	"github.com/printsync/backend/internal/infrastructure/persistence"
	"github.com/printsync/backend/internal/infrastructure/printavo"
	"github.com/printsync/backend/internal/infrastructure/telemetry"
	"github.com/printsync/backend/internal/interfaces/http/handler"
	"github.com/printsync/backend/internal/interfaces/http/middleware"
	"github.com/printsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PrintSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize telemetry
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	merchantRepo := persistence.NewGormMerchantRepository(db.DB)
	mappingRepo := persistence.NewGormOrderMappingRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)

	// Webhook delivery dedup store: Redis when available, otherwise
	// per-process in-memory. Both are best-effort; the mapping ledger's
	// unique constraint is what actually prevents duplicate quotes.
	var deliveryStore sync.DeliveryStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisDeliveryStore(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory delivery dedup", zap.Error(err))
			deliveryStore = cache.NewInMemoryDeliveryStore()
		} else {
			log.Info("Redis delivery dedup store connected", zap.String("addr", cfg.Redis.Addr()))
			deliveryStore = redisStore
		}
	} else {
		deliveryStore = cache.NewInMemoryDeliveryStore()
	}
	defer func() {
		if err := deliveryStore.Close(); err != nil {
			log.Error("Error closing delivery store", zap.Error(err))
		}
	}()

	// Initialize the Printavo API client
	printavoClient, err := printavo.NewClient(&printavo.Config{
		APIBaseURL:     cfg.Printavo.Endpoint,
		TimeoutSeconds: cfg.Printavo.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to create Printavo client", zap.Error(err))
	}

	// Initialize application services
	reconcileService := syncapp.NewReconcileService(
		merchantRepo,
		mappingRepo,
		activityRepo,
		printavoClient,
		cfg.Printavo.APIKey,
		log,
	)

	// Initialize HTTP handlers
	webhookHandler := handler.NewWebhookHandler(
		reconcileService,
		merchantRepo,
		mappingRepo,
		activityRepo,
		deliveryStore,
		cfg.Sync.DedupWindow,
		log,
	)
	settingsHandler := handler.NewSettingsHandler(merchantRepo)
	activityHandler := handler.NewActivityHandler(activityRepo)
	printavoHandler := handler.NewPrintavoHandler(merchantRepo, printavoClient, cfg.Printavo.APIKey)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - OpenTelemetry spans
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Shopify webhook endpoints. HMAC verification runs before any handler;
	// unverifiable deliveries never reach the reconciler.
	webhooks := engine.Group("/webhooks")
	webhooks.Use(middleware.VerifyShopifyWebhook(cfg.Shopify.WebhookSecret))
	webhookHandler.RegisterRoutes(webhooks)

	// Merchant-facing API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(settingsHandler).
		Register(activityHandler).
		Register(printavoHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
