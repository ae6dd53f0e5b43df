package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del reporte de producción.
const (
	ReportStatusDraft     = "DRAFT"
	ReportStatusSubmitted = "SUBMITTED"
	ReportStatusApproved  = "APPROVED"
	ReportStatusReversed  = "REVERSED" // solo alcanzable por el camino de reversa
)

// ProductionReport reporte de producción de una máquina/sección.
// Una vez APPROVED es inmutable salvo por Reverse, que lo deja en REVERSED.
type ProductionReport struct {
	ID                string
	JobNumber         string
	MachineID         string
	SectionID         string
	FinishedItemID    string
	QuantityProduced  decimal.Decimal
	InputRawMaterials decimal.Decimal
	OutputProducts    decimal.Decimal
	ConsumablesUsed   decimal.Decimal
	EstimatedInput    *decimal.Decimal
	EstimatedOutput   *decimal.Decimal
	Remarks           string
	Status            string
	IsDeleted         bool
	CreatedBy         string
	ApprovedBy        string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ApprovedAt        *time.Time
}

var hundred = decimal.NewFromInt(100)

// Waste = input - output.
func (r *ProductionReport) Waste() decimal.Decimal {
	return r.InputRawMaterials.Sub(r.OutputProducts)
}

// Efficiency = output / input * 100, redondeado a 2 decimales; 0 si input es 0.
func (r *ProductionReport) Efficiency() decimal.Decimal {
	if r.InputRawMaterials.IsZero() {
		return decimal.Zero
	}
	return r.OutputProducts.Div(r.InputRawMaterials).Mul(hundred).Round(2)
}

// IsLocked indica si el reporte ya no admite edición ni borrado.
func (r *ProductionReport) IsLocked() bool {
	return r.Status == ReportStatusApproved || r.Status == ReportStatusReversed
}

// CanTransition valida el flujo DRAFT -> SUBMITTED -> APPROVED.
// DRAFT -> APPROVED se permite por vía administrativa; APPROVED -> REVERSED solo por reversa.
func CanTransition(from, to string) bool {
	switch from {
	case ReportStatusDraft:
		return to == ReportStatusSubmitted || to == ReportStatusApproved
	case ReportStatusSubmitted:
		return to == ReportStatusApproved
	case ReportStatusApproved:
		return to == ReportStatusReversed
	}
	return false
}
