package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

type itemRepo struct{ a access }

func (r itemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	return r.a.write(ctx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range st.items {
			if it.Code == item.Code {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.a.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r itemRepo) GetByCode(_ context.Context, code string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.a.read(func(st *state) error {
		for _, it := range st.items {
			if it.Code == code {
				it := it
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r itemRepo) List(_ context.Context, f repository.StockItemFilter) ([]*entity.StockItem, error) {
	var rows []*entity.StockItem
	err := r.a.read(func(st *state) error {
		search := strings.ToLower(f.Search)
		for _, it := range st.items {
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(it.Code), search) &&
				!strings.Contains(strings.ToLower(it.Name), search) {
				continue
			}
			if f.LowStock && !it.IsBelowReorder() {
				continue
			}
			it := it
			rows = append(rows, &it)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Code < rows[j].Code })
	return page(rows, f.Limit, f.Offset), nil
}

func (r itemRepo) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	err := r.a.read(func(st *state) error {
		for id := range st.items {
			ids = append(ids, id)
		}
		return nil
	})
	sort.Strings(ids)
	return ids, err
}

// LockForUpdate dentro de una transacción el estado ya es exclusivo de quien escribe,
// así que basta con devolver copias.
func (r itemRepo) LockForUpdate(_ context.Context, ids []string) (map[string]*entity.StockItem, error) {
	out := make(map[string]*entity.StockItem, len(ids))
	err := r.a.read(func(st *state) error {
		for _, id := range ids {
			if it, ok := st.items[id]; ok {
				out[id] = &it
			}
		}
		return nil
	})
	return out, err
}

func (r itemRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	return r.a.write(ctx, func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return domain.NotFound("ítem", id)
		}
		it.Quantity = quantity
		it.UpdatedAt = at
		st.items[id] = it
		return nil
	})
}
