package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"lock_timeout", &pgconn.PgError{Code: "55P03"}, domain.ErrBusy},
		{"statement_timeout", &pgconn.PgError{Code: "57014"}, domain.ErrBusy},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrBusy},
		{"serialization", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: "40001"}), domain.ErrBusy},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "stock_items_code_key"}, domain.ErrDuplicate},
		{"fk", &pgconn.PgError{Code: "23503"}, domain.ErrNotFound},
		{"check", &pgconn.PgError{Code: "23514"}, domain.ErrInvalidInput},
		{"uuid inválido", &pgconn.PgError{Code: "22P02"}, domain.ErrNotFound},
		{"deadline", context.DeadlineExceeded, domain.ErrBusy},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError("op", c.err), c.want)
		})
	}

	plain := errors.New("conexión caída")
	got := mapError("op", plain)
	assert.ErrorIs(t, got, plain)
	assert.NotErrorIs(t, got, domain.ErrBusy)
	assert.NoError(t, mapError("op", nil))
}
