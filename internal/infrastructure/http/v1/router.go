package v1

import (
	"github.com/gin-gonic/gin"

	"milkledger/internal/app"
	"milkledger/internal/infrastructure/http/v1/handlers"
	"milkledger/internal/infrastructure/http/v1/middleware"
	"milkledger/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Container holds the domain services.
	Container *app.Container

	// Logger for request logging
	Logger *logger.Logger

	// Store is checked by the readiness endpoint; StoreName labels it.
	Store     handlers.Pinger
	StoreName string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.StoreName == "" {
		cfg.StoreName = "database"
	}

	router := gin.New()

	// Global middleware (order matters!). Recovery sits inside ErrorHandler
	// so a recovered panic is still rendered.
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.StoreName)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	c := cfg.Container
	base := handlers.NewBaseHandler()
	api := router.Group("/api/v1")

	// --- Catalogs ---
	catalogs := api.Group("/catalogs")
	RegisterCatalogRoutes(catalogs.Group("/items"), handlers.NewItemHandler(base, c.Items))
	RegisterCatalogRoutes(catalogs.Group("/item-groups"), handlers.NewItemGroupHandler(base, c.ItemGroups))
	RegisterCatalogRoutes(catalogs.Group("/suppliers"), handlers.NewSupplierHandler(base, c.Suppliers))
	RegisterCatalogRoutes(catalogs.Group("/milk-types"), handlers.NewMilkTypeHandler(base, c.MilkTypes))
	RegisterCatalogRoutes(catalogs.Group("/warehouses"), handlers.NewWarehouseHandler(base, c.Warehouses))

	// --- Documents ---
	documents := api.Group("/documents")
	RegisterDocumentRoutes(documents.Group("/purchase-receipts"),
		handlers.NewPurchaseReceiptHandler(base, c.PurchaseReceipts))

	qiHandler := handlers.NewQualityInspectionHandler(base, c.QualityInspections)
	qi := documents.Group("/quality-inspections")
	qi.POST("/make", qiHandler.MakeInspections)
	RegisterDocumentRoutes(qi, qiHandler)

	seHandler := handlers.NewStockEntryHandler(base, c.StockEntries)
	se := documents.Group("/stock-entries")
	RegisterDocumentRoutes(se, seHandler)
	se.GET("/:name/totals", seHandler.Totals)

	// --- Queries used by draft forms ---
	compHandler := handlers.NewCompositionHandler(base, c.Resolver)
	comp := api.Group("/composition")
	{
		comp.GET("/inspection/:name", compHandler.FromInspection)
		comp.GET("/last-known", compHandler.LastKnown)
		comp.GET("/snf", compHandler.SNF)
		comp.POST("/blend", compHandler.Blend)
	}

	pricingHandler := handlers.NewPricingHandler(base, c.Pricing)
	api.POST("/pricing/milk-rate", pricingHandler.MilkRate)

	// --- Registers ---
	regHandler := handlers.NewRegistersHandler(base, c.Stock, c.Ledger)
	registers := api.Group("/registers")
	{
		registers.GET("/stock/balances", regHandler.GetBalances)
		registers.GET("/milk-quality/entries", regHandler.GetLedgerEntries)
	}

	// --- Reports ---
	reportsHandler := handlers.NewReportsHandler(base, c.Reports)
	reports := api.Group("/reports")
	{
		reports.GET("/milk-quality-ledger", reportsHandler.GetMilkQualityLedger)
		reports.GET("/raw-milk-testing", reportsHandler.GetRawMilkTesting)
		reports.GET("/stock-balance", reportsHandler.GetStockBalance)
	}

	return router
}
