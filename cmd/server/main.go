package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/billing/backend/internal/application/billing"
	dashboardapp "github.com/billing/backend/internal/application/dashboard"
	masterdataapp "github.com/billing/backend/internal/application/masterdata"
	partnerapp "github.com/billing/backend/internal/application/partner"
	"github.com/billing/backend/internal/infrastructure/cache"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/event"
	"github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/persistence"
	"github.com/billing/backend/internal/infrastructure/storage"
	"github.com/billing/backend/internal/interfaces/http/handler"
	"github.com/billing/backend/internal/interfaces/http/middleware"
	"github.com/billing/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Database
	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	conversionRepo := persistence.NewGormConversionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// The state list is small and read-heavy, so it sits behind a cache.
	// Redis when configured, otherwise an in-process store.
	var cacheStore cache.Store
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisStore(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Failed to close Redis", zap.Error(err))
			}
		}()
		cacheStore = redisStore
		log.Info("Redis cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		cacheStore = cache.NewMemoryStore()
	}
	stateRepo := cache.NewCachedStateRepository(
		persistence.NewGormStateRepository(db.DB), cacheStore, cfg.Redis.TTL)

	// Document archive
	var archive billingapp.DocumentArchive
	if cfg.Archive.Enabled {
		s3Archive, err := storage.NewS3DocumentArchive(&cfg.Archive, log)
		if err != nil {
			log.Fatal("Failed to initialize document archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure archive bucket", zap.Error(err))
		}
		archive = s3Archive
		log.Info("Document archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	} else {
		archive = storage.NewStubDocumentArchive()
	}

	// Application services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo)
	quotationService := billingapp.NewQuotationService(quotationRepo, invoiceRepo, conversionRepo)
	archiveService := billingapp.NewArchiveService(invoiceRepo, quotationRepo, archive)
	customerService := partnerapp.NewCustomerService(customerRepo, stateRepo)
	stateService := masterdataapp.NewStateService(stateRepo)
	dashboardService := dashboardapp.NewService(dashboardRepo)

	// Domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))
	invoiceService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	customerService.SetEventPublisher(eventBus)

	// HTTP handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, archiveService)
	quotationHandler := handler.NewQuotationHandler(quotationService, archiveService)
	customerHandler := handler.NewCustomerHandler(customerService, invoiceService, quotationService)
	stateHandler := handler.NewStateHandler(stateService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name, version)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(&cfg.HTTP)))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine).
		Register(invoiceHandler).
		Register(quotationHandler).
		Register(customerHandler).
		Register(stateHandler).
		Register(dashboardHandler).
		Register(systemHandler).
		Setup()

	// Lifecycle scheduler: flips sent invoices past due to OVERDUE and
	// open quotations past validity to EXPIRED.
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.Scheduler.Enabled {
		go runLifecycleScheduler(schedulerCtx, cfg.Scheduler.CheckInterval, invoiceService, quotationService, log)
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// runLifecycleScheduler periodically advances time-driven document states
func runLifecycleScheduler(ctx context.Context, interval time.Duration, invoiceService *billingapp.InvoiceService, quotationService *billingapp.QuotationService, log *zap.Logger) {
	log.Info("Lifecycle scheduler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Lifecycle scheduler stopped")
			return
		case now := <-ticker.C:
			if updated, err := invoiceService.MarkOverdueInvoices(ctx, now); err != nil {
				log.Error("Overdue sweep failed", zap.Error(err))
			} else if updated > 0 {
				log.Info("Invoices marked overdue", zap.Int("count", updated))
			}

			if updated, err := quotationService.ExpireQuotations(ctx, now); err != nil {
				log.Error("Expiry sweep failed", zap.Error(err))
			} else if updated > 0 {
				log.Info("Quotations expired", zap.Int("count", updated))
			}
		}
	}
}
