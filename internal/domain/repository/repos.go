package repository

// Repos agrupa los repositorios atados a una misma transacción (o al pool, fuera de ella).
type Repos struct {
	Items        StockItemRepository
	Movements    StockMovementRepository
	BOM          BillOfMaterialRepository
	Reports      ProductionReportRepository
	Consumptions MaterialConsumptionRepository
	Audits       ReportAuditRepository
}
