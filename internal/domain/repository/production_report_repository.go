package repository

import (
	"context"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
)

// ReportFilter filtros de listado; IncludeDeleted es el filtro de visibilidad del borrado lógico.
type ReportFilter struct {
	Status         string
	MachineID      string
	SectionID      string
	JobNumber      string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ProductionReportRepository puerto de persistencia de reportes de producción.
// GetByID devuelve también reportes borrados lógicamente; (nil, nil) si no existe.
type ProductionReportRepository interface {
	Create(ctx context.Context, report *entity.ProductionReport) error
	GetByID(ctx context.Context, id string) (*entity.ProductionReport, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ProductionReport, error)
	Update(ctx context.Context, report *entity.ProductionReport) error
	List(ctx context.Context, filter ReportFilter) ([]*entity.ProductionReport, error)
}

// MaterialConsumptionRepository consumos por reporte.
type MaterialConsumptionRepository interface {
	Create(ctx context.Context, consumption *entity.MaterialConsumption) error
	ListByReport(ctx context.Context, reportID string) ([]*entity.MaterialConsumption, error)
}

// ReportAuditRepository bitácora append-only de reportes.
type ReportAuditRepository interface {
	Create(ctx context.Context, entry *entity.ReportAuditTrail) error
	ListByReport(ctx context.Context, reportID string) ([]*entity.ReportAuditTrail, error)
}
