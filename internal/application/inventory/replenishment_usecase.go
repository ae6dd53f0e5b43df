package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var idealFactor = decimal.NewFromFloat(1.5)

// lowStockPageSize tamaño de página al recorrer el catálogo en LowStock.
const lowStockPageSize = 200

// ReplenishmentSuggestion ítem en o bajo su nivel de reorden con la cantidad sugerida.
// Es informativo: el nivel de reorden nunca bloquea movimientos.
type ReplenishmentSuggestion struct {
	Item         *entity.StockItem
	IdealStock   decimal.Decimal // ReorderLevel * 1.5
	SuggestedQty decimal.Decimal // IdealStock - Quantity
	Priority     int             // 1 = más urgente
}

// LowStock devuelve todos los ítems con quantity <= reorder_level, ordenados por urgencia
// (menor cobertura quantity/reorder_level primero). Recorre el catálogo por páginas.
func (uc *LedgerUseCase) LowStock(ctx context.Context, category string) ([]ReplenishmentSuggestion, error) {
	var items []*entity.StockItem
	for offset := 0; ; offset += lowStockPageSize {
		page, err := uc.repos.Items.List(ctx, repository.StockItemFilter{
			Category: category,
			LowStock: true,
			Limit:    lowStockPageSize,
			Offset:   offset,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
		if len(page) < lowStockPageSize {
			break
		}
	}

	out := make([]ReplenishmentSuggestion, 0, len(items))
	for _, it := range items {
		ideal := it.ReorderLevel.Mul(idealFactor)
		suggested := ideal.Sub(it.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, ReplenishmentSuggestion{Item: it, IdealStock: ideal, SuggestedQty: suggested})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return coverage(out[i].Item).LessThan(coverage(out[j].Item))
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}

func coverage(it *entity.StockItem) decimal.Decimal {
	if it.ReorderLevel.IsZero() {
		return decimal.Zero
	}
	return it.Quantity.Div(it.ReorderLevel)
}
