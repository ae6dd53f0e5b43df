package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialConsumption consumo de materia prima de un reporte, uno por (reporte, ítem) al aprobar.
type MaterialConsumption struct {
	ID           string
	ReportID     string
	RawItemID    string
	QuantityUsed decimal.Decimal
	Unit         string
	CreatedAt    time.Time
}
