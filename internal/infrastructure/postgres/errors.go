package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
)

// Códigos SQLSTATE relevantes para el ledger.
const (
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014" // statement_timeout
	codeDeadlockDetected     = "40P01"
	codeSerializationFailure = "40001"
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02" // id que no es un uuid válido
)

// mapError traduce errores de PostgreSQL a la taxonomía de dominio, conservando la operación.
// Contención de bloqueos y timeouts se reportan como domain.ErrBusy para que el caller decida reintentar.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeQueryCanceled, codeDeadlockDetected, codeSerializationFailure:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrBusy)
		case codeUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrDuplicate)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrNotFound)
		case codeInvalidText:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Message, domain.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrInvalidInput)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || pgconn.Timeout(err) {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrBusy)
	}
	return fmt.Errorf("%s: %w", op, err)
}
