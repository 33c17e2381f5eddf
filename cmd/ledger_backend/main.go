package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/abacusworks/ledger_engine/internal/adapters/database/pgsql"
	"github.com/abacusworks/ledger_engine/internal/core/domain"
	portssvc "github.com/abacusworks/ledger_engine/internal/core/ports/services"
	"github.com/abacusworks/ledger_engine/internal/core/services"
	"github.com/abacusworks/ledger_engine/internal/core/taxonomy"
	"github.com/abacusworks/ledger_engine/internal/handlers"
	"github.com/abacusworks/ledger_engine/internal/middleware"
	"github.com/abacusworks/ledger_engine/internal/platform/config"
	"github.com/abacusworks/ledger_engine/internal/utils/fx"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/abacusworks/ledger_engine/pkg/database"
)

// @title Ledger Engine API
// @version 1.0
// @description Accounting ledger reconstruction and statutory reporting backend.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// Defer closing the connection pool
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := setupRateLimiter(r, cfg.RateLimit, logger); err != nil {
		logger.Error("Failed to set up rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, buildServices(cfg, dbPool))

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations over a temporary database/sql
// connection. The pgx stdlib driver keeps it compatible with the main pool.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// setupRateLimiter installs an in-memory IP rate limiter from the configured
// "<count>-<period>" format, e.g. "100-M".
func setupRateLimiter(r *gin.Engine, format string, logger *slog.Logger) error {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		return err
	}
	store := memory.NewStore()
	r.Use(middleware.RateLimit(limiter.New(store, rate)))
	logger.Info("Rate limiter configured", slog.String("rate", format))
	return nil
}

// buildServices wires the database adapters into the reporting services.
func buildServices(cfg *config.Config, dbPool *pgxpool.Pool) *portssvc.ServiceContainer {
	documents := pgsql.NewDocumentSource(dbPool)
	nativeEntries := pgsql.NewLedgerSource(dbPool)
	filings := pgsql.NewFilingRepository(dbPool)

	converter := buildConverter(cfg)

	materializer := services.NewMaterializerService(
		documents, documents, documents, converter,
		services.WithEntrySource(nativeEntries),
	)

	return &portssvc.ServiceContainer{
		Materializer: materializer,
		TrialBalance: services.NewTrialBalanceService(materializer),
		Ledger:       services.NewLedgerService(materializer),
		VAT: services.NewVATService(documents, documents, filings, converter, services.VATConfig{
			Buckets:            buildVATBuckets(cfg),
			RateTolerancePP:    decimal.NewFromFloat(cfg.VATRateTolerancePP),
			FilingOffsetMonths: cfg.FilingOffsetMonths,
			DueSoonThreshold:   cfg.DueSoonThreshold,
		}),
	}
}

// buildConverter turns the configured rate list into a static converter.
func buildConverter(cfg *config.Config) *fx.Converter {
	rates := make(map[string]decimal.Decimal, len(cfg.FXRates))
	for code, rate := range cfg.FXRates {
		rates[code] = decimal.NewFromFloat(rate)
	}
	return fx.NewConverter(cfg.BaseCurrency, rates)
}

// buildVATBuckets applies configured nominal rates over the statutory bucket
// set, falling back to the built-in rates when a configured rate is zero.
func buildVATBuckets(cfg *config.Config) []domain.VATBucket {
	buckets := taxonomy.DefaultVATBuckets()
	overrides := map[domain.VATBucketKey]float64{
		domain.VATStandard: cfg.VATStandardRate,
		domain.VATReduced:  cfg.VATReducedRate,
		domain.VATLodging:  cfg.VATLodgingRate,
	}
	for i := range buckets {
		if rate := overrides[buckets[i].Key]; rate > 0 {
			buckets[i].NominalRate = decimal.NewFromFloat(rate)
		}
	}
	return buckets
}
