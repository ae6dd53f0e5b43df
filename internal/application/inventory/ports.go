package inventory

import (
	"context"

	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback completo; si no, Commit.
// Una espera de bloqueo que excede el timeout configurado se reporta como domain.ErrBusy.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}
