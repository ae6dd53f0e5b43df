package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Límites del historial de movimientos.
const (
	defaultMovementLimit = 50
	maxMovementLimit     = 500
)

// Verification compara la cantidad guardada con la recalculada desde el ledger.
type Verification struct {
	ItemID     string
	Code       string
	Stored     decimal.Decimal
	Recomputed decimal.Decimal
	Consistent bool
}

// VerificationReport resultado de verificar todo el inventario.
type VerificationReport struct {
	Checked      int
	Inconsistent []Verification
}

// GetItem devuelve el ítem o NotFound.
func (uc *LedgerUseCase) GetItem(ctx context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.repos.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("ítem", id)
	}
	return item, nil
}

// ListMovements historial del ledger, más reciente primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	if f.Type != "" && !entity.ValidMovementType(f.Type) {
		return nil, domain.Invalid("type", "tipo de movimiento desconocido")
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.Invalid("from", "debe ser anterior a to")
	}
	if f.ItemID != "" {
		if _, err := uc.GetItem(ctx, f.ItemID); err != nil {
			return nil, err
		}
	}
	f.Limit, f.Offset = clampPage(f.Limit, f.Offset)
	return uc.repos.Movements.List(ctx, f)
}

// Recalc recalcula la cantidad del ítem sumando sus movimientos con signo.
func (uc *LedgerUseCase) Recalc(ctx context.Context, id string) (decimal.Decimal, error) {
	v, err := uc.Verify(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Recomputed, nil
}

// Verify lee cantidad y suma del ledger bajo el bloqueo de la fila, para que ningún
// movimiento concurrente quede a medias entre ambas lecturas.
func (uc *LedgerUseCase) Verify(ctx context.Context, id string) (*Verification, error) {
	var v *Verification
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		item, err := lockOne(ctx, r, id)
		if err != nil {
			return err
		}
		sum, err := r.Movements.SumByItem(ctx, id)
		if err != nil {
			return err
		}
		v = &Verification{
			ItemID:     item.ID,
			Code:       item.Code,
			Stored:     item.Quantity,
			Recomputed: sum,
			Consistent: item.Quantity.Equal(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// VerifyAll verifica cada ítem y devuelve solo los inconsistentes.
func (uc *LedgerUseCase) VerifyAll(ctx context.Context) (*VerificationReport, error) {
	ids, err := uc.repos.Items.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	report := &VerificationReport{Inconsistent: []Verification{}}
	for _, id := range ids {
		v, err := uc.Verify(ctx, id)
		if err != nil {
			return nil, err
		}
		report.Checked++
		if !v.Consistent {
			uc.log.Warn().Str("item_id", v.ItemID).Str("stored", v.Stored.String()).
				Str("recomputed", v.Recomputed.String()).Msg("cantidad inconsistente con el ledger")
			report.Inconsistent = append(report.Inconsistent, *v)
		}
	}
	return report, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultMovementLimit
	}
	if limit > maxMovementLimit {
		limit = maxMovementLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
