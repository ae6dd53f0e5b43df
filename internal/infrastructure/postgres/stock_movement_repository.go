package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create agrega un movimiento.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, type, quantity, reference, remarks, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.Type, m.Quantity, m.Reference, m.Remarks, m.CreatedAt, m.CreatedBy,
	)
	return mapError("insert stock movement", err)
}

// List historial filtrado, más reciente primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, item_id, type, quantity, reference, remarks, created_at, created_by
		FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, f.Type)
		pos++
	}
	if f.Reference != "" {
		query += fmt.Sprintf(" AND reference LIKE $%d", pos)
		args = append(args, "%"+f.Reference+"%")
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.Reference, &m.Remarks,
			&m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, mapError("scan stock movement", err)
		}
		list = append(list, &m)
	}
	return list, mapError("list stock movements", rows.Err())
}

// SumByItem suma con signo: OUT resta, el resto guarda su propio signo.
func (r *StockMovementRepo) SumByItem(ctx context.Context, itemID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE item_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID).Scan(&sum); err != nil {
		return decimal.Zero, mapError("sum stock movements", err)
	}
	return sum, nil
}
