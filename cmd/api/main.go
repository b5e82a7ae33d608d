package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/gateway"
	sessionUseCase "github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/session"
	walletUseCase "github.com/amirhossein-jamali/coaching-wallet/internal/domain/usecase/wallet"

	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/validation"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/assessment"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/events"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/metrics"
	timeProvider "github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/config"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger, err := logger.NewZapLogger(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
		Production: cfg.Environment == config.Production,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	// Pricing is validated before anything touches storage
	costModel, err := cfg.Pricing.CostModel()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	bonusPolicy, err := cfg.Pricing.BonusPolicy()
	if err != nil {
		log.Fatalf("Invalid bonus configuration: %v", err)
	}

	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Connect to the database
	dbConfig := database.CreateConfigFromViperConfig(cfg)
	if err := dbConfig.Validate(); err != nil {
		log.Fatalf("Invalid database configuration: %v", err)
	}

	dbManager := database.NewManager(dbConfig, appLogger, tp, registry)
	dbManager.SetRetryConfig(database.RetryConfigFromViperConfig(cfg))
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	// Run migrations
	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	err = dbManager.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Unit of work (transaction manager)
	uow := dbManager.CreateUnitOfWork()

	// Domain event sink
	var publisher gateway.EventPublisher = events.NoopPublisher{}
	if cfg.Redis.Enabled {
		redisClient := events.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password, appLogger)
		defer func() { _ = redisClient.Close() }()
		publisher = events.NewRedisPublisher(redisClient, cfg.Redis.EventsKey, appLogger)
	}

	// Answer scoring
	var assessor gateway.Assessor = assessment.NewHeuristicAssessor()
	if cfg.Assessment.Endpoint != "" {
		assessor = assessment.NewHTTPAssessor(cfg.Assessment.Endpoint, cfg.Assessment.APIKey, cfg.Assessment.Timeout, appLogger)
	}

	// Initialize use cases
	wallets := walletUseCase.NewWalletUseCase(
		uow,
		ids,
		tp,
		appLogger,
		appMetrics,
		publisher,
		bonusPolicy,
		cfg.Pricing.Currency,
	)

	sessions := sessionUseCase.NewSessionUseCase(
		uow,
		wallets,
		costModel,
		assessor,
		publisher,
		ids,
		tp,
		appLogger,
		appMetrics,
		sessionUseCase.Settings{
			ReservationTTL:    cfg.Session.ReservationTTL,
			ActiveGrace:       cfg.Session.ActiveGrace,
			SweepBatchSize:    cfg.Session.SweepBatchSize,
			AssessmentTimeout: cfg.Assessment.Timeout,
			VideoBaseURL:      cfg.Session.VideoBaseURL,
		},
	)

	// Stale session sweeper
	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()
	sweeper := sessionUseCase.NewSweeper(sessions, tp, appLogger, cfg.Session.SweepInterval)
	sweeper.Start(sweeperCtx)

	// Initialize API handlers
	if err := validation.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}
	walletHandler := handler.NewWalletHandler(wallets, appLogger)
	sessionHandler := handler.NewSessionHandler(sessions, appLogger)

	opts := routes.Options{MetricsPath: cfg.Metrics.Path}
	if cfg.Metrics.Enabled {
		opts.Gatherer = registry
	}
	if cfg.Auth.Enabled {
		opts.Auth = middleware.Auth(middleware.AuthConfig{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.Issuer,
		}, appLogger)
	}
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, appLogger)
		defer rateLimiter.Stop()
		opts.RateLimit = rateLimiter.Limit()
	}

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger, appMetrics, opts)

	// Setup routes
	routes.SetupRoutes(router, walletHandler, sessionHandler, dbManager, opts)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":         server.Addr,
			"env":          cfg.Environment,
			"db_driver":    dbConfig.Driver,
			"auth":         cfg.Auth.Enabled,
			"rate_limit":   cfg.RateLimit.Enabled,
			"events_redis": cfg.Redis.Enabled,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server first so no new sessions start
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	// Let an in-flight sweep finish
	if err := sweeper.Shutdown(ctx); err != nil {
		appLogger.Warn("Session sweeper did not stop in time", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration; sqlite only needs a file name
	if cfg.Database.Driver != database.DriverSQLite {
		if cfg.Database.Host == "" && os.Getenv("CW_DB_HOST") == "" {
			missingConfigs = append(missingConfigs, "database.host (or CW_DB_HOST environment variable)")
		}

		if cfg.Database.Username == "" && os.Getenv("CW_DB_USERNAME") == "" {
			missingConfigs = append(missingConfigs, "database.username (or CW_DB_USERNAME environment variable)")
		}

		if cfg.Database.Password == "" && os.Getenv("CW_DB_PASSWORD") == "" {
			missingConfigs = append(missingConfigs, "database.password (or CW_DB_PASSWORD environment variable)")
		}
	}

	if cfg.Database.Database == "" && os.Getenv("CW_DB_NAME") == "" {
		missingConfigs = append(missingConfigs, "database.database (or CW_DB_NAME environment variable)")
	}

	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Validate transaction configuration
	if cfg.Transaction.MaxRetries == 0 {
		missingConfigs = append(missingConfigs, "transaction.maxRetries")
	}

	// Validate session configuration
	if cfg.Session.ReservationTTL == 0 {
		missingConfigs = append(missingConfigs, "session.reservationTTL")
	}

	if cfg.Session.SweepInterval == 0 {
		missingConfigs = append(missingConfigs, "session.sweepInterval")
	}

	// Bearer tokens need a key
	if cfg.Auth.Enabled && cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or CW_JWT_SECRET environment variable)")
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RequestsPerSecond <= 0 || cfg.RateLimit.Burst <= 0) {
		return fmt.Errorf("rateLimit.requestsPerSecond and rateLimit.burst must be positive when rate limiting is enabled")
	}

	if cfg.Redis.Enabled && cfg.Redis.URL == "" {
		missingConfigs = append(missingConfigs, "redis.url")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		// Check database security settings
		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.Driver != database.DriverSQLite &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}

		if !cfg.Auth.Enabled {
			warnings = append(warnings, "auth.enabled is false; wallet endpoints are unauthenticated")
		}

		// Check timeout settings
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}

		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
