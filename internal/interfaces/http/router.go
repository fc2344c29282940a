package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger           *inventory.StockLedgerUseCase
	Reports          *inventory.StockReportUseCase
	Sales            *inventory.SalesAggregatorUseCase
	DefaultThreshold int64
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	writers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)

	// Stock (las rutas fijas antes de /:id)
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.Ledger)
	stockGroup.Get("/search", stockHandler.Search)
	stockGroup.Get("/max-quantity", stockHandler.MaxQuantity)
	stockGroup.Get("/max-value", stockHandler.MaxValue)
	stockGroup.Get("/product/:productId", stockHandler.ListByProduct)
	stockGroup.Get("/supplier/:supplierId", stockHandler.ListBySupplier)
	stockGroup.Get("/", stockHandler.List)
	stockGroup.Post("/", writers, stockHandler.Allocate)
	stockGroup.Get("/:id", stockHandler.GetByID)
	stockGroup.Put("/:id", writers, stockHandler.Adjust)
	stockGroup.Delete("/:id", writers, stockHandler.Remove)

	// Reportes de stock
	reports := api.Group("/reports/stock")
	reportHandler := NewReportHandler(deps.Reports, deps.DefaultThreshold)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/:category/pdf", reportHandler.ExportPDF)
	reports.Get("/:category", reportHandler.ByCategory)

	// Ventas
	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Sales)
	sales.Post("/", sellers, salesHandler.RecordSale)
	sales.Get("/summary/range", salesHandler.SummaryByDateRange)
	sales.Get("/summary", salesHandler.Summary)
	sales.Get("/best-sellers", salesHandler.BestSellers)
}
