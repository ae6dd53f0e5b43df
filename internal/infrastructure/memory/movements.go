package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

type movementRepo struct{ a access }

func (r movementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.items[m.ItemID]; !ok {
			return domain.NotFound("ítem", m.ItemID)
		}
		st.movements = append(st.movements, *m)
		return nil
	})
}

// List más reciente primero; a igual fecha, el último agregado primero.
func (r movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var rows []*entity.StockMovement
	err := r.a.read(func(st *state) error {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.Reference != "" && !strings.Contains(m.Reference, f.Reference) {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			rows = append(rows, &m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return page(rows, f.Limit, f.Offset), nil
}

func (r movementRepo) SumByItem(_ context.Context, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	err := r.a.read(func(st *state) error {
		for i := range st.movements {
			if st.movements[i].ItemID == itemID {
				sum = sum.Add(st.movements[i].SignedQuantity())
			}
		}
		return nil
	})
	return sum, err
}
