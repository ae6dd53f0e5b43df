package production

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jhoicas/prodsys-ledger/internal/application/bom"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Approve lleva el reporte a APPROVED en una sola transacción:
// resuelve la receta, valida existencias, descuenta materia prima (referencia = id del reporte),
// registra los consumos, ingresa el producto terminado, marca el estado y audita APPROVE.
// Cualquier error deshace todo y el reporte conserva su estado anterior.
func (uc *ReportUseCase) Approve(ctx context.Context, id, actor string) (*entity.ProductionReport, error) {
	var out *entity.ProductionReport
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		rep, err := loadForUpdate(ctx, r, id)
		if err != nil {
			return err
		}
		switch rep.Status {
		case entity.ReportStatusApproved:
			return domain.ErrAlreadyApproved
		case entity.ReportStatusReversed:
			return domain.ErrImmutableApprovedReport
		}
		if !entity.CanTransition(rep.Status, entity.ReportStatusApproved) {
			return &domain.TransitionError{From: rep.Status, To: entity.ReportStatusApproved}
		}

		required, err := bom.Resolve(ctx, r.BOM, rep.FinishedItemID, rep.QuantityProduced)
		if err != nil {
			return err
		}
		lines := bom.Sorted(required)

		ids := make([]string, 0, len(lines)+1)
		for _, l := range lines {
			ids = append(ids, l.RawItemID)
		}
		ids = append(ids, rep.FinishedItemID)
		locked, err := inventory.LockItems(ctx, r, ids)
		if err != nil {
			return err
		}
		for _, l := range lines {
			item := locked[l.RawItemID]
			if item.Quantity.LessThan(l.Quantity) {
				return &domain.InsufficientStockError{ItemID: item.ID, Available: item.Quantity, Requested: l.Quantity}
			}
		}

		now := uc.now()
		if len(lines) > 0 {
			err := uc.ledger.DeductLockedTx(ctx, r, locked, inventory.DeductManyInput{
				Items:     required,
				Reference: rep.ID,
				Remarks:   "consumo reporte " + rep.JobNumber,
				Actor:     actor,
			}, now)
			if err != nil {
				return err
			}
		}
		for _, l := range lines {
			c := &entity.MaterialConsumption{
				ID:           uuid.New().String(),
				ReportID:     rep.ID,
				RawItemID:    l.RawItemID,
				QuantityUsed: l.Quantity,
				Unit:         locked[l.RawItemID].UnitOfMeasure,
				CreatedAt:    now,
			}
			if err := r.Consumptions.Create(ctx, c); err != nil {
				return err
			}
		}
		_, err = uc.ledger.StockInLockedTx(ctx, r, locked[rep.FinishedItemID], inventory.MovementInput{
			ItemID:    rep.FinishedItemID,
			Quantity:  rep.QuantityProduced,
			Reference: rep.ID,
			Remarks:   "producción reporte " + rep.JobNumber,
			Actor:     actor,
		}, now)
		if err != nil {
			return err
		}

		rep.Status = entity.ReportStatusApproved
		rep.ApprovedAt = &now
		rep.ApprovedBy = actor
		rep.UpdatedAt = now
		if err := r.Reports.Update(ctx, rep); err != nil {
			return err
		}
		if _, err := uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeApprove, ""); err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		if isShortage(err) {
			var short *domain.InsufficientStockError
			ev := uc.log.Warn().Str("report_id", id)
			if errors.As(err, &short) {
				ev = ev.Str("item_id", short.ItemID).Str("available", short.Available.String()).
					Str("requested", short.Requested.String())
			}
			ev.Msg("aprobación rechazada por stock insuficiente")
		}
		return nil, err
	}
	uc.log.Info().Str("report_id", out.ID).Str("job_number", out.JobNumber).
		Str("quantity_produced", out.QuantityProduced.String()).Str("actor", actor).Msg("reporte aprobado")
	return out, nil
}

// Reverse deshace un reporte aprobado con movimientos compensatorios: IN de cada materia prima
// consumida y OUT del producto terminado. El reporte queda REVERSED (terminal) y se audita REVERSE.
// Los consumos originales se conservan como historia.
func (uc *ReportUseCase) Reverse(ctx context.Context, id, actor, reason string) (*entity.ProductionReport, error) {
	if reason == "" {
		return nil, domain.Invalid("reason", "es obligatorio")
	}
	var out *entity.ProductionReport
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		rep, err := loadForUpdate(ctx, r, id)
		if err != nil {
			return err
		}
		if !entity.CanTransition(rep.Status, entity.ReportStatusReversed) {
			return &domain.TransitionError{From: rep.Status, To: entity.ReportStatusReversed}
		}
		consumed, err := r.Consumptions.ListByReport(ctx, rep.ID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(consumed)+1)
		for _, c := range consumed {
			ids = append(ids, c.RawItemID)
		}
		ids = append(ids, rep.FinishedItemID)
		locked, err := inventory.LockItems(ctx, r, ids)
		if err != nil {
			return err
		}

		now := uc.now()
		remarks := "reversa reporte " + rep.JobNumber + ": " + reason
		_, err = uc.ledger.StockOutLockedTx(ctx, r, locked[rep.FinishedItemID], inventory.MovementInput{
			ItemID:    rep.FinishedItemID,
			Quantity:  rep.QuantityProduced,
			Reference: rep.ID,
			Remarks:   remarks,
			Actor:     actor,
		}, now)
		if err != nil {
			return err
		}
		for _, c := range consumed {
			_, err := uc.ledger.StockInLockedTx(ctx, r, locked[c.RawItemID], inventory.MovementInput{
				ItemID:    c.RawItemID,
				Quantity:  c.QuantityUsed,
				Reference: rep.ID,
				Remarks:   remarks,
				Actor:     actor,
			}, now)
			if err != nil {
				return err
			}
		}

		rep.Status = entity.ReportStatusReversed
		rep.UpdatedAt = now
		if err := r.Reports.Update(ctx, rep); err != nil {
			return err
		}
		if _, err := uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeReverse, reason); err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("report_id", out.ID).Str("actor", actor).Str("reason", reason).Msg("reporte revertido")
	return out, nil
}
