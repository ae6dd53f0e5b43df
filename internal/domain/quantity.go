package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityScale decimales con que se almacenan cantidades (NUMERIC(18,4)).
// Un valor con más decimales se redondearía distinto en el ítem y en cada movimiento.
const QuantityScale int32 = 4

// CheckScale devuelve ValidationError si q tiene más de QuantityScale decimales significativos.
func CheckScale(field string, q decimal.Decimal) error {
	if !q.Equal(q.Truncate(QuantityScale)) {
		return Invalid(field, fmt.Sprintf("admite como máximo %d decimales", QuantityScale))
	}
	return nil
}
