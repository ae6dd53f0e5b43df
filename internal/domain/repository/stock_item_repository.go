package repository

import (
	"context"
	"time"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockItemFilter filtros de listado de ítems.
type StockItemFilter struct {
	Category string
	Search   string // coincide con code o name
	LowStock bool   // quantity <= reorder_level
	Limit    int
	Offset   int
}

// StockItemRepository puerto de persistencia de ítems de inventario.
// GetByID/GetByCode devuelven (nil, nil) si no existe.
type StockItemRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByCode(ctx context.Context, code string) (*entity.StockItem, error)
	List(ctx context.Context, filter StockItemFilter) ([]*entity.StockItem, error)
	ListIDs(ctx context.Context) ([]string, error)

	// LockForUpdate bloquea las filas (SELECT ... FOR UPDATE) en orden ascendente de id
	// y las devuelve indexadas por id. Los ids inexistentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockItem, error)

	// UpdateQuantity es la única escritura de quantity; solo la usa el motor de ledger.
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error
}
