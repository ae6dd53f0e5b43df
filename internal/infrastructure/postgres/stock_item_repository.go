package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

const stockItemColumns = `id, code, name, description, category, unit_of_measure,
	width, length, thickness, weight, quantity, reorder_level, created_at, updated_at`

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

// Create persiste un ítem nuevo.
func (r *StockItemRepo) Create(ctx context.Context, it *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (` + stockItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Code, it.Name, it.Description, it.Category, it.UnitOfMeasure,
		it.Width, it.Length, it.Thickness, it.Weight, it.Quantity, it.ReorderLevel,
		it.CreatedAt, it.UpdatedAt,
	)
	return mapError("insert stock item", err)
}

// GetByID obtiene un ítem por ID; (nil, nil) si no existe.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE id = $1`
	return r.getOne(ctx, "get stock item", query, id)
}

// GetByCode obtiene un ítem por código; (nil, nil) si no existe.
func (r *StockItemRepo) GetByCode(ctx context.Context, code string) (*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE code = $1`
	return r.getOne(ctx, "get stock item by code", query, code)
}

func (r *StockItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.StockItem, error) {
	it, err := scanStockItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return it, nil
}

// List lista ítems con filtros, ordenados por código.
func (r *StockItemRepo) List(ctx context.Context, f repository.StockItemFilter) ([]*entity.StockItem, error) {
	query := `SELECT ` + stockItemColumns + ` FROM stock_items WHERE 1=1`
	args := []any{}
	pos := 1
	if f.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", pos)
		args = append(args, f.Category)
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (code ILIKE $%d OR name ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	if f.LowStock {
		query += " AND quantity <= reorder_level"
	}
	query += " ORDER BY code"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list stock items", err)
	}
	defer rows.Close()
	var list []*entity.StockItem
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, mapError("scan stock item", err)
		}
		list = append(list, it)
	}
	return list, mapError("list stock items", rows.Err())
}

// ListIDs todos los ids en orden ascendente.
func (r *StockItemRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM stock_items ORDER BY id`)
	if err != nil {
		return nil, mapError("list stock item ids", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError("collect stock item ids", err)
	}
	return ids, nil
}

// LockForUpdate bloquea las filas en orden ascendente de id (SELECT ... ORDER BY id FOR UPDATE),
// el orden global que evita esperas circulares entre operaciones multi-ítem.
func (r *StockItemRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.StockItem, error) {
	out := make(map[string]*entity.StockItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query := `SELECT ` + stockItemColumns + `
		FROM stock_items WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, mapError("lock stock items", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanStockItem(rows)
		if err != nil {
			return nil, mapError("scan locked stock item", err)
		}
		out[it.ID] = it
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("lock stock items", err)
	}
	return out, nil
}

// UpdateQuantity única escritura de quantity.
func (r *StockItemRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_items SET quantity = $2, updated_at = $3 WHERE id = $1`,
		id, quantity, at)
	if err != nil {
		return mapError("update stock quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("ítem", id)
	}
	return nil
}

func scanStockItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.Category, &it.UnitOfMeasure,
		&it.Width, &it.Length, &it.Thickness, &it.Weight, &it.Quantity, &it.ReorderLevel,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
