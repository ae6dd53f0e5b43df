package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxOptions límites por transacción. Cero deja el valor del servidor.
type TxOptions struct {
	LockTimeout      time.Duration // SET LOCAL lock_timeout
	StatementTimeout time.Duration // SET LOCAL statement_timeout
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED).
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxOptions) *TxRunner {
	return &TxRunner{pool: pool, opts: opts}
}

// Run inicia una transacción, fija los timeouts locales, ejecuta fn con repos atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapError("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := setLocalTimeout(ctx, tx, "lock_timeout", r.opts.LockTimeout); err != nil {
		return err
	}
	if err := setLocalTimeout(ctx, tx, "statement_timeout", r.opts.StatementTimeout); err != nil {
		return err
	}

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// SET no admite parámetros; el valor es un entero de milisegundos.
func setLocalTimeout(ctx context.Context, tx pgx.Tx, name string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL %s = %d", name, d.Milliseconds())); err != nil {
		return mapError("set "+name, err)
	}
	return nil
}
