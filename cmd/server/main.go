package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/quoteflow/backend/internal/application/catalog"
	currencyapp "github.com/quoteflow/backend/internal/application/currency"
	invoicingapp "github.com/quoteflow/backend/internal/application/invoicing"
	partnerapp "github.com/quoteflow/backend/internal/application/partner"
	quotingapp "github.com/quoteflow/backend/internal/application/quoting"
	"github.com/quoteflow/backend/internal/infrastructure/cache"
	"github.com/quoteflow/backend/internal/infrastructure/config"
	"github.com/quoteflow/backend/internal/infrastructure/logger"
	"github.com/quoteflow/backend/internal/infrastructure/persistence"
	"github.com/quoteflow/backend/internal/infrastructure/recordstore"
	"github.com/quoteflow/backend/internal/interfaces/http/handler"
	"github.com/quoteflow/backend/internal/interfaces/http/middleware"
	"github.com/quoteflow/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	store := recordstore.NewGormStore(db.DB)
	if cfg.Database.Driver == "sqlite" {
		// sqlite deployments skip the migrate binary
		if err := store.AutoMigrate(); err != nil {
			log.Fatal("failed to migrate records table", zap.Error(err))
		}
	}

	// Repositories
	serviceRepo := persistence.NewRecordServiceRepository(store)
	bundleRepo := persistence.NewRecordBundleRepository(store)
	bundleItemRepo := persistence.NewRecordBundleItemRepository(store)
	quotationRepo := persistence.NewRecordQuotationRepository(store)
	quotationLineRepo := persistence.NewRecordQuotationLineRepository(store)
	invoiceRepo := persistence.NewRecordInvoiceRepository(store)
	invoiceLineRepo := persistence.NewRecordInvoiceLineRepository(store)
	customerRepo := persistence.NewRecordCustomerRepository(store)
	rateRepo := persistence.NewRecordCurrencyRateRepository(store)

	// Catalog snapshot cache. Previews read through the cache; paths
	// that persist documents load a fresh view.
	loader := cache.NewSnapshotLoader(serviceRepo, bundleRepo, bundleItemRepo)
	snapshotCache, err := cache.NewSnapshotCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
	).CreateCache(loader)
	if err != nil {
		log.Fatal("failed to create snapshot cache", zap.Error(err))
	}
	defer snapshotCache.Close()
	cachedViews := cache.NewViewSource(snapshotCache)
	freshViews := cache.NewFreshViewSource(loader)

	// Application services
	serviceService := catalogapp.NewServiceService(serviceRepo, snapshotCache, log)
	bundleService := catalogapp.NewBundleService(bundleRepo, bundleItemRepo, cachedViews, snapshotCache, log)
	quotationService := quotingapp.NewQuotationService(
		quotationRepo, quotationLineRepo,
		invoiceRepo, invoiceLineRepo,
		freshViews, cfg.Quoting, log,
	)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, invoiceLineRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo)
	rateService := currencyapp.NewRateService(rateRepo)

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimit(1<<20),
	)

	apiMiddleware := []gin.HandlerFunc{middleware.AccessKey(cfg.Auth)}
	if cfg.HTTP.RateLimit > 0 {
		apiMiddleware = append(apiMiddleware,
			middleware.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitWindow))
	}
	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(apiMiddleware...),
	)
	r.Register(handler.NewSystemHandler(db)).
		Register(handler.NewServiceHandler(serviceService)).
		Register(handler.NewBundleHandler(bundleService)).
		Register(handler.NewQuotationHandler(quotationService)).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewCustomerHandler(customerService)).
		Register(handler.NewCurrencyHandler(rateService)).
		Register(handler.NewRecordHandler(store))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// corsConfig applies configured CORS overrides on top of the defaults
func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		cors.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return cors
}
