package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Las variantes *Tx usan los repositorios de la transacción del caller (ej: la aprobación de un
// reporte), de modo que sus escrituras hacen commit o rollback junto con las del caller.

// StockInTx suma in.Quantity al ítem dentro de la transacción r.
func (uc *LedgerUseCase) StockInTx(ctx context.Context, r repository.Repos, in MovementInput, now time.Time) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	item, err := lockOne(ctx, r, in.ItemID)
	if err != nil {
		return nil, err
	}
	return uc.StockInLockedTx(ctx, r, item, in, now)
}

// StockInLockedTx como StockInTx sobre un ítem que el caller ya bloqueó con LockItems.
func (uc *LedgerUseCase) StockInLockedTx(ctx context.Context, r repository.Repos, item *entity.StockItem, in MovementInput, now time.Time) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	if err := post(ctx, r, item, entity.MovementTypeIN, in.Quantity, in.Quantity, in.Reference, in.Remarks, in.Actor, now); err != nil {
		return nil, err
	}
	return item, nil
}

// StockOutTx resta in.Quantity del ítem dentro de la transacción r.
func (uc *LedgerUseCase) StockOutTx(ctx context.Context, r repository.Repos, in MovementInput, now time.Time) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	item, err := lockOne(ctx, r, in.ItemID)
	if err != nil {
		return nil, err
	}
	return uc.StockOutLockedTx(ctx, r, item, in, now)
}

// StockOutLockedTx como StockOutTx sobre un ítem ya bloqueado.
func (uc *LedgerUseCase) StockOutLockedTx(ctx context.Context, r repository.Repos, item *entity.StockItem, in MovementInput, now time.Time) (*entity.StockItem, error) {
	if err := validateMove(in, true); err != nil {
		return nil, err
	}
	if item.Quantity.LessThan(in.Quantity) {
		return nil, &domain.InsufficientStockError{ItemID: item.ID, Available: item.Quantity, Requested: in.Quantity}
	}
	if err := post(ctx, r, item, entity.MovementTypeOUT, in.Quantity, in.Quantity.Neg(), in.Reference, in.Remarks, in.Actor, now); err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustTx aplica el delta con signo in.Quantity dentro de la transacción r.
func (uc *LedgerUseCase) AdjustTx(ctx context.Context, r repository.Repos, in MovementInput, now time.Time) (*entity.StockItem, error) {
	if err := validateMove(in, false); err != nil {
		return nil, err
	}
	item, err := lockOne(ctx, r, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item.Quantity.Add(in.Quantity).IsNegative() {
		return nil, &domain.NegativeResultError{ItemID: item.ID, Current: item.Quantity, Delta: in.Quantity}
	}
	if err := post(ctx, r, item, entity.MovementTypeADJUST, in.Quantity, in.Quantity, in.Reference, in.Remarks, in.Actor, now); err != nil {
		return nil, err
	}
	return item, nil
}

// TransferTx resta del origen y suma al destino dentro de la transacción r.
// Ambas filas se bloquean en una sola llamada, en orden ascendente de id.
func (uc *LedgerUseCase) TransferTx(ctx context.Context, r repository.Repos, in TransferInput, now time.Time) (from, to *entity.StockItem, err error) {
	if err := validateTransfer(in); err != nil {
		return nil, nil, err
	}
	locked, err := r.Items.LockForUpdate(ctx, sortedIDs([]string{in.FromItemID, in.ToItemID}))
	if err != nil {
		return nil, nil, err
	}
	from, ok := locked[in.FromItemID]
	if !ok {
		return nil, nil, domain.NotFound("ítem", in.FromItemID)
	}
	to, ok = locked[in.ToItemID]
	if !ok {
		return nil, nil, domain.NotFound("ítem", in.ToItemID)
	}
	if from.UnitOfMeasure != to.UnitOfMeasure && !uc.opts.AllowCrossUnitTransfer {
		return nil, nil, fmt.Errorf("%w: %s (%s) -> %s (%s)", domain.ErrUnitMismatch,
			from.Code, from.UnitOfMeasure, to.Code, to.UnitOfMeasure)
	}
	if from.Quantity.LessThan(in.Quantity) {
		return nil, nil, &domain.InsufficientStockError{ItemID: from.ID, Available: from.Quantity, Requested: in.Quantity}
	}
	out := in.Quantity.Neg()
	if err := post(ctx, r, from, entity.MovementTypeTRANSFER, out, out, in.Reference, in.Remarks, in.Actor, now); err != nil {
		return nil, nil, err
	}
	if err := post(ctx, r, to, entity.MovementTypeTRANSFER, in.Quantity, in.Quantity, in.Reference, in.Remarks, in.Actor, now); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// DeductManyTx bloquea todos los ítems en orden ascendente de id, valida el lote completo
// y solo entonces escribe. El primer ítem que no alcanza aborta todo.
func (uc *LedgerUseCase) DeductManyTx(ctx context.Context, r repository.Repos, in DeductManyInput, now time.Time) error {
	if err := validateDeduct(in); err != nil {
		return err
	}
	locked, err := LockItems(ctx, r, deductIDs(in))
	if err != nil {
		return err
	}
	return uc.DeductLockedTx(ctx, r, locked, in, now)
}

// DeductLockedTx como DeductManyTx cuando el caller ya tiene bloqueados (con LockItems)
// todos los ítems del lote; locked puede contener otros ítems.
func (uc *LedgerUseCase) DeductLockedTx(ctx context.Context, r repository.Repos, locked map[string]*entity.StockItem, in DeductManyInput, now time.Time) error {
	if err := validateDeduct(in); err != nil {
		return err
	}
	ids := deductIDs(in)
	for _, id := range ids {
		item, ok := locked[id]
		if !ok {
			return domain.NotFound("ítem", id)
		}
		if item.Quantity.LessThan(in.Items[id]) {
			return &domain.InsufficientStockError{ItemID: id, Available: item.Quantity, Requested: in.Items[id]}
		}
	}
	for _, id := range ids {
		qty := in.Items[id]
		if err := post(ctx, r, locked[id], entity.MovementTypeOUT, qty, qty.Neg(), in.Reference, in.Remarks, in.Actor, now); err != nil {
			return err
		}
	}
	return nil
}

func deductIDs(in DeductManyInput) []string {
	ids := make([]string, 0, len(in.Items))
	for id := range in.Items {
		ids = append(ids, id)
	}
	return sortedIDs(ids)
}

// LockItems bloquea los ítems indicados en orden ascendente de id.
// Devuelve NotFound por el primer id inexistente.
func LockItems(ctx context.Context, r repository.Repos, ids []string) (map[string]*entity.StockItem, error) {
	ids = sortedIDs(ids)
	locked, err := r.Items.LockForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, domain.NotFound("ítem", id)
		}
	}
	return locked, nil
}

func lockOne(ctx context.Context, r repository.Repos, id string) (*entity.StockItem, error) {
	locked, err := LockItems(ctx, r, []string{id})
	if err != nil {
		return nil, err
	}
	return locked[id], nil
}

// post escribe la nueva cantidad y el movimiento; ambos viven o mueren con la transacción.
func post(
	ctx context.Context,
	r repository.Repos,
	item *entity.StockItem,
	movType string,
	stored, delta decimal.Decimal,
	reference, remarks, actor string,
	now time.Time,
) error {
	newQty := item.Quantity.Add(delta)
	if newQty.IsNegative() {
		return &domain.InsufficientStockError{ItemID: item.ID, Available: item.Quantity, Requested: delta.Neg()}
	}
	if err := r.Items.UpdateQuantity(ctx, item.ID, newQty, now); err != nil {
		return err
	}
	item.Quantity = newQty
	item.UpdatedAt = now

	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		Type:      movType,
		Quantity:  stored,
		Reference: reference,
		Remarks:   remarks,
		CreatedAt: now,
		CreatedBy: actor,
	}
	return r.Movements.Create(ctx, mov)
}

// sortedIDs devuelve los ids sin duplicados y en orden ascendente: el orden global de bloqueo.
func sortedIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
