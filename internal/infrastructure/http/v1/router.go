package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/partner"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/catalogs/product"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/debt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/export_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/documents/import_receipt"
	"github.com/HuyKhos/lamanh-shop-app/internal/domain/settings"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/handlers"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/http/v1/middleware"
	"github.com/HuyKhos/lamanh-shop-app/internal/infrastructure/metrics"
	"github.com/HuyKhos/lamanh-shop-app/pkg/logger"
)

// Services bundles the domain services exposed over HTTP.
type Services struct {
	Products *product.Service
	Partners *partner.Service
	Imports  *import_receipt.Service
	Exports  *export_receipt.Service
	Debts    *debt.Service
	Settings *settings.Service
}

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger   *logger.Logger
	Services Services

	// Store backs the readiness probe; StorageName labels it.
	Store       handlers.Pinger
	StorageName string

	// Metrics is optional. Gatherer defaults to the Prometheus default registry.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(metrics.GinMiddleware(cfg.Metrics))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.StorageName)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		gatherer := cfg.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	registerCatalogRoutes(api, cfg.Services)
	registerReceiptRoutes(api, cfg.Services)
	registerLedgerRoutes(api, cfg.Services)

	return router
}

// registerCatalogRoutes registers product and partner endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svc Services) {
	base := handlers.NewBaseHandler()

	RegisterCatalogRoutes(rg.Group("/products"), handlers.NewProductHandler(base, svc.Products))
	RegisterCatalogRoutes(rg.Group("/partners"), handlers.NewPartnerHandler(base, svc.Partners))
}

// registerReceiptRoutes registers import and export endpoints.
func registerReceiptRoutes(rg *gin.RouterGroup, svc Services) {
	base := handlers.NewBaseHandler()

	RegisterReceiptRoutes(rg.Group("/imports"), handlers.NewImportHandler(base, svc.Imports))
	RegisterReceiptRoutes(rg.Group("/exports"), handlers.NewExportHandler(base, svc.Exports))
}

// registerLedgerRoutes registers the debt ledger and the dashboard note.
func registerLedgerRoutes(rg *gin.RouterGroup, svc Services) {
	base := handlers.NewBaseHandler()

	debtHandler := handlers.NewDebtHandler(base, svc.Debts)
	debts := rg.Group("/debts")
	{
		debts.GET("", debtHandler.List)
		debts.PUT("/payment/:id", debtHandler.Pay)
		debts.GET("/:id", debtHandler.Get)
		debts.PUT("/:id", debtHandler.UpdateNote)
	}

	dashboardHandler := handlers.NewDashboardHandler(base, svc.Settings)
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/note", dashboardHandler.GetNote)
		dashboard.POST("/note", dashboardHandler.SaveNote)
	}
}
