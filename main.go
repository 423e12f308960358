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

	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/migrations"
	"github.com/secom-mes/mes-engine/pkg/audit"
	"github.com/secom-mes/mes-engine/pkg/config"
	"github.com/secom-mes/mes-engine/pkg/database"
	"github.com/secom-mes/mes-engine/pkg/handlers"
	"github.com/secom-mes/mes-engine/pkg/logging"
	"github.com/secom-mes/mes-engine/pkg/metrics"
	"github.com/secom-mes/mes-engine/pkg/middleware"
	"github.com/secom-mes/mes-engine/pkg/repositories"
	"github.com/secom-mes/mes-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.String("error", logging.SanitizeError(err)))
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.URL())),
		zap.Int("default_page_size", cfg.Paging.DefaultPageSize),
		zap.Float64("default_risk_threshold", cfg.Analytics.DefaultRiskThreshold))

	db, err := database.Connect(ctx, &database.Config{
		URL:             cfg.Database.URL(),
		MaxConnections:  cfg.Database.MaxConnections,
		ConnectAttempts: cfg.Database.ConnectAttempts,
		Tracer:          metrics.QueryTracer{},
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		sqlDB, err := database.OpenSQL(cfg.Database.URL())
		if err != nil {
			return err
		}
		if err := database.RunMigrations(sqlDB, migrations.FS, logger); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newRouter(cfg, db, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting mes-engine", zap.String("addr", server.Addr), zap.String("version", cfg.Version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newRouter wires repositories, services and handlers onto one mux.
// Metrics wraps the mux directly so it can read the matched pattern.
func newRouter(cfg *config.Config, db *database.DB, logger *zap.Logger) http.Handler {
	equipmentRepo := repositories.NewEquipmentRepository(db)
	operatorRepo := repositories.NewOperatorRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	productRepo := repositories.NewProductTypeRepository(db)
	lotRepo := repositories.NewLotRepository(db)
	featureRepo := repositories.NewFeatureMetaRepository(db)
	importanceRepo := repositories.NewFeatureImportanceRepository(db)
	measurementRepo := repositories.NewMeasurementRepository(db)
	qualityRepo := repositories.NewQualityResultRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	pager := services.NewPager(cfg.Paging)
	auditor := audit.NewSecurityAuditor(logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handlers.NewEquipmentHandler(services.NewEquipmentService(equipmentRepo, logger), auditor, logger).RegisterRoutes(mux)
	handlers.NewOperatorHandler(services.NewOperatorService(operatorRepo, lotRepo, logger), auditor, logger).RegisterRoutes(mux)
	handlers.NewShiftHandler(services.NewShiftService(shiftRepo, logger), auditor, logger).RegisterRoutes(mux)
	handlers.NewProductHandler(services.NewProductService(productRepo, logger), auditor, logger).RegisterRoutes(mux)
	handlers.NewFeatureHandler(services.NewFeatureService(featureRepo, importanceRepo, logger), pager, auditor, logger).RegisterRoutes(mux)
	handlers.NewMeasurementHandler(services.NewMeasurementService(measurementRepo, logger), pager, auditor, logger).RegisterRoutes(mux)
	handlers.NewQualityHandler(services.NewQualityService(qualityRepo, cfg.Analytics, logger), pager, auditor, logger).RegisterRoutes(mux)
	handlers.NewLotHandler(services.NewLotService(lotRepo, logger), pager, auditor, logger).RegisterRoutes(mux)
	handlers.NewAnalyticsHandler(services.NewAnalyticsService(analyticsRepo, cfg.Analytics, logger), auditor, logger).RegisterRoutes(mux)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})

	var h http.Handler = mux
	h = middleware.Metrics(h)
	h = middleware.Recover(logger)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.RequestID(h)
	return corsHandler(h)
}
