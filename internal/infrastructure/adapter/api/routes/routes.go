package routes

import (
	"context"
	"net/http"
	"time"

	domainerr "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/coaching-wallet/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether storage is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options selects the optional parts of the router
type Options struct {
	// Auth guards /user routes when non-nil
	Auth gin.HandlerFunc
	// RateLimit throttles every route when non-nil
	RateLimit gin.HandlerFunc
	// MetricsPath exposes Prometheus metrics when Gatherer is set
	MetricsPath string
	Gatherer    prometheus.Gatherer
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	walletHandler *handler.WalletHandler,
	sessionHandler *handler.SessionHandler,
	health HealthChecker,
	opts Options,
) {
	router.GET("/health", healthHandler(health))

	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		router.GET(path, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	router.GET("/pricing/estimate", sessionHandler.EstimateCost)

	// User routes
	userRoutes := router.Group("/user/:userId")
	if opts.Auth != nil {
		userRoutes.Use(opts.Auth)
	}
	{
		userRoutes.GET("/balance", walletHandler.GetBalance)
		userRoutes.POST("/topup", walletHandler.TopUp)
		userRoutes.GET("/transactions", walletHandler.ListTransactions)

		userRoutes.POST("/sessions", sessionHandler.StartSession)
		userRoutes.GET("/sessions", sessionHandler.ListSessions)
		userRoutes.GET("/sessions/:sessionId", sessionHandler.GetSession)
		userRoutes.POST("/sessions/:sessionId/interact", sessionHandler.Interact)
		userRoutes.POST("/sessions/:sessionId/complete", sessionHandler.CompleteSession)
		userRoutes.POST("/sessions/:sessionId/cancel", sessionHandler.CancelSession)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, recorder middleware.RequestRecorder, opts Options) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger, recorder))
	if opts.RateLimit != nil {
		router.Use(opts.RateLimit)
	}
}

func healthHandler(health HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(domainerr.ErrDatabaseConnection),
				Message: "Database unavailable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
