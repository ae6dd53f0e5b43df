package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReportRequest entrada para crear un reporte de producción (queda en DRAFT).
type CreateReportRequest struct {
	JobNumber         string           `json:"job_number" validate:"required,max=100"`
	MachineID         string           `json:"machine_id" validate:"max=100"`
	SectionID         string           `json:"section_id" validate:"max=100"`
	FinishedItemID    string           `json:"finished_item_id" validate:"required"`
	QuantityProduced  decimal.Decimal  `json:"quantity_produced"`
	InputRawMaterials decimal.Decimal  `json:"input_raw_materials"`
	OutputProducts    decimal.Decimal  `json:"output_products"`
	ConsumablesUsed   decimal.Decimal  `json:"consumables_used"`
	EstimatedInput    *decimal.Decimal `json:"estimated_input,omitempty"`
	EstimatedOutput   *decimal.Decimal `json:"estimated_output,omitempty"`
	Remarks           string           `json:"remarks" validate:"max=1000"`
}

// UpdateReportRequest actualización parcial; solo se aplican los campos presentes.
type UpdateReportRequest struct {
	JobNumber         *string          `json:"job_number" validate:"omitempty,min=1,max=100"`
	MachineID         *string          `json:"machine_id" validate:"omitempty,max=100"`
	SectionID         *string          `json:"section_id" validate:"omitempty,max=100"`
	QuantityProduced  *decimal.Decimal `json:"quantity_produced"`
	InputRawMaterials *decimal.Decimal `json:"input_raw_materials"`
	OutputProducts    *decimal.Decimal `json:"output_products"`
	ConsumablesUsed   *decimal.Decimal `json:"consumables_used"`
	EstimatedInput    *decimal.Decimal `json:"estimated_input"`
	EstimatedOutput   *decimal.Decimal `json:"estimated_output"`
	Remarks           *string          `json:"remarks" validate:"omitempty,max=1000"`
}

// ReverseReportRequest body de POST /api/reports/:id/reverse.
type ReverseReportRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ReportFilterRequest query de GET /api/reports.
type ReportFilterRequest struct {
	PageRequest
	Status         string `query:"status" validate:"omitempty,oneof=DRAFT SUBMITTED APPROVED REVERSED"`
	MachineID      string `query:"machine_id"`
	SectionID      string `query:"section_id"`
	JobNumber      string `query:"job_number"`
	IncludeDeleted bool   `query:"include_deleted"`
}

// ReportResponse salida de un reporte con sus derivados.
type ReportResponse struct {
	ID                string           `json:"id"`
	JobNumber         string           `json:"job_number"`
	MachineID         string           `json:"machine_id,omitempty"`
	SectionID         string           `json:"section_id,omitempty"`
	FinishedItemID    string           `json:"finished_item_id"`
	QuantityProduced  decimal.Decimal  `json:"quantity_produced"`
	InputRawMaterials decimal.Decimal  `json:"input_raw_materials"`
	OutputProducts    decimal.Decimal  `json:"output_products"`
	ConsumablesUsed   decimal.Decimal  `json:"consumables_used"`
	EstimatedInput    *decimal.Decimal `json:"estimated_input,omitempty"`
	EstimatedOutput   *decimal.Decimal `json:"estimated_output,omitempty"`
	Waste             decimal.Decimal  `json:"waste"`
	Efficiency        decimal.Decimal  `json:"efficiency"`
	Remarks           string           `json:"remarks,omitempty"`
	Status            string           `json:"status"`
	IsDeleted         bool             `json:"is_deleted"`
	CreatedBy         string           `json:"created_by"`
	ApprovedBy        string           `json:"approved_by,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	ApprovedAt        *time.Time       `json:"approved_at,omitempty"`
}

// ReportListResponse lista paginada de reportes.
type ReportListResponse struct {
	Items []ReportResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ConsumptionResponse consumo de materia prima de un reporte aprobado.
type ConsumptionResponse struct {
	ID           string          `json:"id"`
	ReportID     string          `json:"report_id"`
	RawItemID    string          `json:"raw_item_id"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	Unit         string          `json:"unit"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AuditEntryResponse fila de la bitácora de un reporte.
type AuditEntryResponse struct {
	ID         string    `json:"id"`
	ReportID   string    `json:"report_id"`
	ChangedBy  string    `json:"changed_by"`
	ChangeType string    `json:"change_type"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
