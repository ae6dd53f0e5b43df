package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Querier lo que necesitan los repositorios; lo cumplen *pgxpool.Pool y pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewRepos agrupa todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Items:        NewStockItemRepository(q),
		Movements:    NewStockMovementRepository(q),
		BOM:          NewBillOfMaterialRepository(q),
		Reports:      NewProductionReportRepository(q),
		Consumptions: NewMaterialConsumptionRepository(q),
		Audits:       NewReportAuditRepository(q),
	}
}
