package repository

import (
	"context"
	"time"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MovementFilter filtros del historial de movimientos.
type MovementFilter struct {
	ItemID    string
	Type      string
	Reference string // coincidencia parcial
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository ledger append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	// SumByItem suma firmada de todos los movimientos del ítem.
	SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error)
}
