// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bottledays/internal/domain/auth"
	"bottledays/internal/domain/companies"
	"bottledays/internal/domain/report"
	"bottledays/internal/infrastructure/export"
	"bottledays/internal/infrastructure/http/v1/handlers"
	"bottledays/internal/infrastructure/http/v1/middleware"
	"bottledays/internal/infrastructure/storage/postgres"
	"bottledays/pkg/logger"
)

var _ middleware.JWTValidator = (*auth.Service)(nil)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	AuthService    *auth.Service
	ReportService  *report.Service
	CompanyService *companies.Service
	Exporter       *export.Exporter
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")

	// Auth endpoints (no token required)
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
	api.POST("/auth/login", authHandler.Login)

	// Everything else requires a valid token.
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTValidator))

	reportHandler := handlers.NewReportHandler(base, cfg.ReportService, cfg.Exporter)
	reports := protected.Group("/reports")
	{
		reports.GET("/bottle-days", reportHandler.Get)
		reports.GET("/bottle-days/export", reportHandler.Export)
	}

	companyHandler := handlers.NewCompanyHandler(base, cfg.CompanyService)
	companyRoutes := protected.Group("/companies")
	{
		companyRoutes.GET("", companyHandler.List)
		companyRoutes.GET("/:id", companyHandler.Get)
		companyRoutes.POST("", companyHandler.Create)
		companyRoutes.PUT("/:id", companyHandler.Update)
		companyRoutes.DELETE("/:id", companyHandler.Delete)
	}

	return router
}
