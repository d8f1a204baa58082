package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/api/handlers"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/api/middleware"
	"github.com/Wyzincsmarthome/Suprides-shopify-sync/internal/config"
)

// Deps are the services behind the HTTP API. History is nil when the run
// ledger is not configured.
type Deps struct {
	Runner    handlers.RunTrigger
	History   handlers.RunHistory
	Previewer handlers.Previewer
	Gatherer  prometheus.Gatherer
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, deps Deps, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Suprides → Shopify catalog sync",
			"endpoints": []string{
				"GET /health",
				"GET /metrics",
				"GET /v1/runs",
				"GET /v1/runs/:id",
				"POST /v1/runs",
				"GET /v1/products/:ean",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "running": deps.Runner.Running()})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/runs", handlers.HandleListRuns(deps.History, deps.Runner, logger))
		v1.GET("/runs/:id", handlers.HandleGetRun(deps.History, deps.Runner, logger))

		adminRoutes := v1.Group("")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg.AdminAPIKeyHash, logger))
		{
			adminRoutes.POST("/runs", handlers.HandleTriggerRun(deps.Runner, logger))
			adminRoutes.GET("/products/:ean", handlers.HandlePreviewProduct(deps.Previewer, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests; scrapes of /metrics and /health are logged at debug
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if path == "/metrics" || path == "/health" {
			logger.Debug("HTTP request", fields...)
			return
		}
		logger.Info("HTTP request", fields...)
	}
}
