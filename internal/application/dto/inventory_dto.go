package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockMoveRequest body para POST /api/items/:id/stock-in y /stock-out.
type StockMoveRequest struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference" validate:"max=100"`
	Remarks   string          `json:"remarks" validate:"max=500"`
}

// AdjustRequest body para POST /api/items/:id/adjust. Delta es con signo.
type AdjustRequest struct {
	Delta     decimal.Decimal `json:"delta"`
	Reference string          `json:"reference" validate:"max=100"`
	Remarks   string          `json:"remarks" validate:"max=500"`
}

// TransferRequest body para POST /api/items/:id/transfer (el :id es el origen).
type TransferRequest struct {
	ToItemID  string          `json:"to_item_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference" validate:"max=100"`
	Remarks   string          `json:"remarks" validate:"max=500"`
}

// DeductLine línea de una deducción múltiple.
type DeductLine struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DeductManyRequest body para POST /api/inventory/deduct.
type DeductManyRequest struct {
	Items     []DeductLine `json:"items" validate:"required,min=1,dive"`
	Reference string       `json:"reference" validate:"max=100"`
	Remarks   string       `json:"remarks" validate:"max=500"`
}

// MovementFilterRequest query de GET /api/inventory/movements.
type MovementFilterRequest struct {
	PageRequest
	ItemID    string `query:"item_id"`
	Type      string `query:"type" validate:"omitempty,oneof=IN OUT ADJUST TRANSFER"`
	Reference string `query:"reference"`
	From      string `query:"from"` // RFC3339
	To        string `query:"to"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	SignedQuantity decimal.Decimal `json:"signed_quantity"`
	Reference      string          `json:"reference,omitempty"`
	Remarks        string          `json:"remarks,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferResponse estado de ambos ítems tras un traslado.
type TransferResponse struct {
	From ItemResponse `json:"from"`
	To   ItemResponse `json:"to"`
}

// VerifyResponse resultado de recalcular un ítem desde su ledger.
type VerifyResponse struct {
	ItemID     string          `json:"item_id"`
	Code       string          `json:"code"`
	Stored     decimal.Decimal `json:"stored"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Consistent bool            `json:"consistent"`
}

// VerifyAllResponse resumen de verificación de todo el inventario.
type VerifyAllResponse struct {
	Checked      int              `json:"checked"`
	Inconsistent []VerifyResponse `json:"inconsistent"`
}

// ReplenishmentSuggestionDTO ítem bajo su nivel de reorden con la cantidad sugerida de reposición.
type ReplenishmentSuggestionDTO struct {
	Item         ItemResponse    `json:"item"`
	IdealStock   decimal.Decimal `json:"ideal_stock"`   // ReorderLevel * 1.5
	SuggestedQty decimal.Decimal `json:"suggested_qty"` // IdealStock - Quantity
	Priority     int             `json:"priority"`      // 1 = más urgente
}
