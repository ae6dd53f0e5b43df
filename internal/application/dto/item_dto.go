package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem de inventario. La cantidad siempre inicia en 0;
// los saldos iniciales se cargan con stock-in.
type CreateItemRequest struct {
	Code          string          `json:"code" validate:"required,min=1,max=100"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"max=1000"`
	Category      string          `json:"category" validate:"required,oneof=RAW CONSUMABLE WIP FINISHED_GOODS"`
	UnitOfMeasure string          `json:"unit_of_measure" validate:"required,max=20"`
	Width         decimal.Decimal `json:"width"`
	Length        decimal.Decimal `json:"length"`
	Thickness     decimal.Decimal `json:"thickness"`
	Weight        decimal.Decimal `json:"weight"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
}

// ItemFilterRequest query de GET /api/items.
type ItemFilterRequest struct {
	PageRequest
	Category string `query:"category" validate:"omitempty,oneof=RAW CONSUMABLE WIP FINISHED_GOODS"`
	Search   string `query:"search"`
	LowStock bool   `query:"low_stock"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Width         decimal.Decimal `json:"width"`
	Length        decimal.Decimal `json:"length"`
	Thickness     decimal.Decimal `json:"thickness"`
	Weight        decimal.Decimal `json:"weight"`
	Quantity      decimal.Decimal `json:"quantity"`
	ReorderLevel  decimal.Decimal `json:"reorder_level"`
	BelowReorder  bool            `json:"below_reorder"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// CreateBOMLineRequest entrada para crear una línea de receta.
type CreateBOMLineRequest struct {
	FinishedItemID   string          `json:"finished_item_id" validate:"required"`
	RawItemID        string          `json:"raw_item_id" validate:"required"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
}

// BOMLineResponse salida de una línea de receta.
type BOMLineResponse struct {
	ID               string          `json:"id"`
	FinishedItemID   string          `json:"finished_item_id"`
	RawItemID        string          `json:"raw_item_id"`
	QuantityRequired decimal.Decimal `json:"quantity_required"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RequirementResponse cantidad de materia prima requerida para una producción.
type RequirementResponse struct {
	RawItemID string          `json:"raw_item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}
