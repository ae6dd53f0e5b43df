package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de inventario.
const (
	CategoryRaw           = "RAW"
	CategoryConsumable    = "CONSUMABLE"
	CategoryWIP           = "WIP"
	CategoryFinishedGoods = "FINISHED_GOODS"
)

// ValidCategory indica si la categoría pertenece al catálogo.
func ValidCategory(c string) bool {
	switch c {
	case CategoryRaw, CategoryConsumable, CategoryWIP, CategoryFinishedGoods:
		return true
	}
	return false
}

// StockItem representa un ítem físico de inventario (materia prima, WIP o producto terminado).
// Quantity es el valor autoritativo en mano; solo el motor de ledger lo modifica y siempre
// debe coincidir con la suma firmada de sus movimientos.
type StockItem struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	Category      string
	UnitOfMeasure string
	Width         decimal.Decimal // atributos informativos, no negativos
	Length        decimal.Decimal
	Thickness     decimal.Decimal
	Weight        decimal.Decimal
	Quantity      decimal.Decimal
	ReorderLevel  decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsBelowReorder es informativo; el nivel de reorden nunca bloquea movimientos.
func (i *StockItem) IsBelowReorder() bool {
	return i.Quantity.LessThanOrEqual(i.ReorderLevel)
}
