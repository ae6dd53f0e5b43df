package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillOfMaterial línea de receta: cantidad de RawItemID necesaria por una unidad de FinishedItemID.
// Única por par (FinishedItemID, RawItemID).
type BillOfMaterial struct {
	ID               string
	FinishedItemID   string
	RawItemID        string
	QuantityRequired decimal.Decimal
	CreatedAt        time.Time
}
