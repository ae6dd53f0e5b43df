package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeIN       = "IN"
	MovementTypeOUT      = "OUT"
	MovementTypeADJUST   = "ADJUST"
	MovementTypeTRANSFER = "TRANSFER"
)

// StockMovement registro inmutable del ledger.
// IN y OUT guardan magnitudes sin signo (el tipo implica el signo);
// ADJUST y TRANSFER guardan el delta con signo.
type StockMovement struct {
	ID        string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	Reference string
	Remarks   string
	CreatedAt time.Time
	CreatedBy string
}

// SignedQuantity devuelve el efecto del movimiento sobre la cantidad del ítem.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	if m.Type == MovementTypeOUT {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST, MovementTypeTRANSFER:
		return true
	}
	return false
}
