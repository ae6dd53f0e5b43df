package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/application/production"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *usecase.CatalogUseCase
	LedgerUC  *inventory.LedgerUseCase
	ReportUC  *production.ReportUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las escrituras
// además exigen la capacidad del rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Ítems y movimientos por ítem
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.CatalogUC, deps.LedgerUC)
	items.Post("/", RequireCapability(CapCatalogWrite), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/:id/stock-in", RequireCapability(CapStockMove), itemHandler.StockIn)
	items.Post("/:id/stock-out", RequireCapability(CapStockMove), itemHandler.StockOut)
	items.Post("/:id/adjust", RequireCapability(CapStockMove), itemHandler.Adjust)
	items.Post("/:id/transfer", RequireCapability(CapStockMove), itemHandler.Transfer)
	items.Get("/:id/movements", itemHandler.Movements)
	items.Get("/:id/verify", itemHandler.Verify)

	// Inventario multi-ítem
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Post("/deduct", RequireCapability(CapStockMove), inventoryHandler.DeductMany)
	inv.Get("/movements", inventoryHandler.Movements)
	inv.Get("/low-stock", inventoryHandler.LowStock)
	inv.Get("/verify", inventoryHandler.VerifyAll)

	// Recetas
	bomGroup := api.Group("/bom")
	bomHandler := NewBOMHandler(deps.CatalogUC)
	bomGroup.Post("/", RequireCapability(CapCatalogWrite), bomHandler.Create)
	bomGroup.Get("/", bomHandler.List)
	bomGroup.Get("/requirements", bomHandler.Requirements)

	// Reportes de producción
	reports := api.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	reports.Post("/", RequireCapability(CapReportWrite), reportHandler.Create)
	reports.Get("/", reportHandler.List)
	reports.Get("/:id", reportHandler.GetByID)
	reports.Put("/:id", RequireCapability(CapReportWrite), reportHandler.Update)
	reports.Delete("/:id", RequireCapability(CapReportDelete), reportHandler.Delete)
	reports.Post("/:id/submit", RequireCapability(CapReportWrite), reportHandler.Submit)
	reports.Post("/:id/approve", RequireCapability(CapReportApprove), reportHandler.Approve)
	reports.Post("/:id/reverse", RequireCapability(CapReportReverse), reportHandler.Reverse)
	reports.Get("/:id/consumptions", reportHandler.Consumptions)
	reports.Get("/:id/audit", reportHandler.AuditTrail)
}
