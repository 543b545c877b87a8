package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "crossquote/docs"
	"crossquote/internal/cache"
	"crossquote/internal/catalog"
	"crossquote/internal/classifier"
	"crossquote/internal/config"
	"crossquote/internal/domain"
	"crossquote/internal/handler"
	"crossquote/internal/logger"
	"crossquote/internal/logistics"
	"crossquote/internal/middleware"
	"crossquote/internal/port"
	"crossquote/internal/repository/memory"
	"crossquote/internal/repository/postgres"
	"crossquote/internal/router"
	"crossquote/internal/service"
	s3storage "crossquote/internal/storage/s3"
	"crossquote/internal/taxrule"
	"crossquote/internal/validator"
)

// @title           Crossquote API
// @version         1.0
// @description     Landed-cost quoting for cross-border orders: HS classification, duty and VAT, and shipping recommendations.
// @BasePath        /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = appLog.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database is optional: it backs the postgres catalog source and custom mappings.
	var db *sqlx.DB
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
	}

	source, err := catalogSource(ctx, cfg, db)
	if err != nil {
		return err
	}

	var mappings port.CustomMappingRepository
	if db != nil {
		mappings = postgres.NewCustomMappingRepo(db)
	} else {
		mappings = memory.NewCustomMappingRepo()
	}

	var quoteCache port.QuoteCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize quote cache: %w", err)
		}
		defer client.Close()
		quoteCache = cache.NewRedisQuoteCache(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
	}

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		return err
	}

	// Initialize services
	catalogSvc := service.NewCatalogService(source, mappings, engineCfg, appLog)
	if _, err := catalogSvc.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load catalog from %s: %w", source.Name(), err)
	}

	classificationSvc := service.NewClassificationService(catalogSvc)
	quoteSvc := service.NewQuoteService(
		catalogSvc,
		validator.NewEngine(validator.NewDefaultRegistry()),
		quoteCache,
		service.QuoteConfig{
			ConfidenceFloor: cfg.Classifier.ConfidenceFloor,
			DefaultPackage: domain.Dimensions{
				LengthCm: cfg.Logistics.DefaultLengthCm,
				WidthCm:  cfg.Logistics.DefaultWidthCm,
				HeightCm: cfg.Logistics.DefaultHeightCm,
			},
		},
		appLog,
	)

	// Start background workers
	refreshWorker := service.NewCatalogRefreshWorker(catalogSvc, service.CatalogRefreshConfig{
		Interval: cfg.Catalog.RefreshInterval,
		Timeout:  30 * time.Second,
	}, appLog)
	go refreshWorker.Start(ctx)

	// Initialize handlers
	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	quoteH := handler.NewQuoteHandler(quoteSvc)
	classificationH := handler.NewClassificationHandler(classificationSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	healthH := handler.NewHealthHandler(catalogSvc, pinger)

	r := router.Setup(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		EnableSwagger:  cfg.Server.Environment != "production",
	}, appLog, quoteH, classificationH, catalogH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("server starting", zap.String("addr", srv.Addr), zap.String("catalog_source", source.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	appLog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func catalogSource(ctx context.Context, cfg *config.Config, db *sqlx.DB) (port.CatalogSource, error) {
	switch cfg.Catalog.Source {
	case catalog.SourcePostgres:
		return catalog.NewRepositorySource(
			postgres.NewHSCodeRepo(db),
			postgres.NewJurisdictionRepo(db),
			postgres.NewCarrierServiceRepo(db),
		), nil
	case catalog.SourceS3:
		storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return catalog.NewObjectSource(storage, cfg.S3.Bucket, cfg.S3.SnapshotKey), nil
	default:
		return catalog.NewBuiltinSource(), nil
	}
}

func engineConfig(cfg *config.Config) (service.EngineConfig, error) {
	defaultDuty, err := decimal.NewFromString(cfg.Tax.DefaultDutyRate)
	if err != nil {
		return service.EngineConfig{}, fmt.Errorf("invalid default duty rate %q: %w", cfg.Tax.DefaultDutyRate, err)
	}
	return service.EngineConfig{
		Classifier: classifier.Config{
			FuzzyThreshold: cfg.Classifier.FuzzyThreshold,
			MaxResults:     cfg.Classifier.MaxResults,
			MiscCode:       cfg.Classifier.MiscCode,
		},
		Tax: taxrule.Config{
			DefaultDutyRate:   defaultDuty,
			CategoryDutyRates: taxrule.DefaultCategoryDutyRates(),
		},
		Logistics: logistics.Config{
			VolumetricDivisor: cfg.Logistics.VolumetricDivisor,
			BaseWeight:        cfg.Logistics.BaseWeight,
			PreferenceBoost:   cfg.Logistics.PreferenceBoost,
			DDPBonus:          cfg.Logistics.DDPBonus,
		},
	}, nil
}
