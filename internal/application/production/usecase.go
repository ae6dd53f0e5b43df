// Package production implementa el ciclo de vida de los reportes de producción:
// DRAFT -> SUBMITTED -> APPROVED, con la deducción de materia prima por receta y el ingreso
// de producto terminado dentro de la misma transacción que la aprobación.
package production

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/prodsys-ledger/internal/application/audit"
	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/inventory"
	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
	"github.com/jhoicas/prodsys-ledger/pkg/logger"
)

// ReportUseCase casos de uso de reportes de producción.
type ReportUseCase struct {
	tx       inventory.TxRunner
	repos    repository.Repos
	ledger   *inventory.LedgerUseCase
	recorder *audit.Recorder
	log      *logger.Logger
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	tx inventory.TxRunner,
	repos repository.Repos,
	ledger *inventory.LedgerUseCase,
	recorder *audit.Recorder,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		tx:       tx,
		repos:    repos,
		ledger:   ledger,
		recorder: recorder,
		log:      log.Component("production"),
		now:      time.Now,
	}
}

// Create crea un reporte en DRAFT y registra CREATE en la bitácora.
func (uc *ReportUseCase) Create(ctx context.Context, actor string, in dto.CreateReportRequest) (*entity.ProductionReport, error) {
	jobNumber := strings.TrimSpace(in.JobNumber)
	if jobNumber == "" {
		return nil, domain.Invalid("job_number", "es obligatorio")
	}
	if in.FinishedItemID == "" {
		return nil, domain.Invalid("finished_item_id", "es obligatorio")
	}
	now := uc.now()
	rep := &entity.ProductionReport{
		ID:                uuid.New().String(),
		JobNumber:         jobNumber,
		MachineID:         in.MachineID,
		SectionID:         in.SectionID,
		FinishedItemID:    in.FinishedItemID,
		QuantityProduced:  in.QuantityProduced,
		InputRawMaterials: in.InputRawMaterials,
		OutputProducts:    in.OutputProducts,
		ConsumablesUsed:   in.ConsumablesUsed,
		EstimatedInput:    in.EstimatedInput,
		EstimatedOutput:   in.EstimatedOutput,
		Remarks:           in.Remarks,
		Status:            entity.ReportStatusDraft,
		CreatedBy:         actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validateFigures(rep); err != nil {
		return nil, err
	}

	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		item, err := r.Items.GetByID(ctx, rep.FinishedItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("ítem", rep.FinishedItemID)
		}
		if err := r.Reports.Create(ctx, rep); err != nil {
			return err
		}
		_, err = uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeCreate, "")
		return err
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// Update aplica los campos presentes. Rechaza reportes aprobados o revertidos.
func (uc *ReportUseCase) Update(ctx context.Context, id, actor string, in dto.UpdateReportRequest) (*entity.ProductionReport, error) {
	var out *entity.ProductionReport
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		rep, err := loadForUpdate(ctx, r, id)
		if err != nil {
			return err
		}
		if rep.IsLocked() {
			return domain.ErrImmutableApprovedReport
		}
		changed := applyUpdate(rep, in)
		if err := validateFigures(rep); err != nil {
			return err
		}
		rep.UpdatedAt = uc.now()
		if err := r.Reports.Update(ctx, rep); err != nil {
			return err
		}
		if _, err := uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeUpdate, strings.Join(changed, ",")); err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Submit pasa un reporte de DRAFT a SUBMITTED; se audita como UPDATE.
func (uc *ReportUseCase) Submit(ctx context.Context, id, actor string) (*entity.ProductionReport, error) {
	var out *entity.ProductionReport
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		rep, err := loadForUpdate(ctx, r, id)
		if err != nil {
			return err
		}
		if rep.IsLocked() {
			return domain.ErrImmutableApprovedReport
		}
		if !entity.CanTransition(rep.Status, entity.ReportStatusSubmitted) {
			return &domain.TransitionError{From: rep.Status, To: entity.ReportStatusSubmitted}
		}
		from := rep.Status
		rep.Status = entity.ReportStatusSubmitted
		rep.UpdatedAt = uc.now()
		if err := r.Reports.Update(ctx, rep); err != nil {
			return err
		}
		if _, err := uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeUpdate, from+" -> "+rep.Status); err != nil {
			return err
		}
		out = rep
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete marca el reporte como borrado y registra DELETE. No toca el ledger:
// un reporte sin aprobar nunca ha posteado movimientos.
func (uc *ReportUseCase) Delete(ctx context.Context, id, actor string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		rep, err := loadForUpdate(ctx, r, id)
		if err != nil {
			return err
		}
		if rep.IsLocked() {
			return domain.ErrImmutableApprovedReport
		}
		rep.IsDeleted = true
		rep.UpdatedAt = uc.now()
		if err := r.Reports.Update(ctx, rep); err != nil {
			return err
		}
		_, err = uc.recorder.Record(ctx, r.Audits, rep.ID, actor, entity.ChangeTypeDelete, "")
		return err
	})
}

// Get devuelve el reporte; los borrados lógicamente responden NotFound.
func (uc *ReportUseCase) Get(ctx context.Context, id string) (*entity.ProductionReport, error) {
	rep, err := uc.repos.Reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil || rep.IsDeleted {
		return nil, domain.NotFound("reporte", id)
	}
	return rep, nil
}

// List lista reportes; IncludeDeleted decide la visibilidad de los borrados.
func (uc *ReportUseCase) List(ctx context.Context, f repository.ReportFilter) ([]*entity.ProductionReport, error) {
	if f.Limit <= 0 {
		f.Limit = dto.DefaultLimit
	}
	if f.Limit > dto.MaxLimit {
		f.Limit = dto.MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return uc.repos.Reports.List(ctx, f)
}

// Consumptions consumos registrados al aprobar el reporte.
func (uc *ReportUseCase) Consumptions(ctx context.Context, id string) ([]*entity.MaterialConsumption, error) {
	if err := uc.exists(ctx, id); err != nil {
		return nil, err
	}
	return uc.repos.Consumptions.ListByReport(ctx, id)
}

// AuditTrail bitácora del reporte en orden cronológico (incluye reportes borrados).
func (uc *ReportUseCase) AuditTrail(ctx context.Context, id string) ([]*entity.ReportAuditTrail, error) {
	if err := uc.exists(ctx, id); err != nil {
		return nil, err
	}
	return uc.repos.Audits.ListByReport(ctx, id)
}

func (uc *ReportUseCase) exists(ctx context.Context, id string) error {
	rep, err := uc.repos.Reports.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rep == nil {
		return domain.NotFound("reporte", id)
	}
	return nil
}

// loadForUpdate bloquea el reporte; los borrados lógicamente responden NotFound.
func loadForUpdate(ctx context.Context, r repository.Repos, id string) (*entity.ProductionReport, error) {
	rep, err := r.Reports.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep == nil || rep.IsDeleted {
		return nil, domain.NotFound("reporte", id)
	}
	return rep, nil
}

func applyUpdate(rep *entity.ProductionReport, in dto.UpdateReportRequest) []string {
	var changed []string
	if in.JobNumber != nil {
		rep.JobNumber = strings.TrimSpace(*in.JobNumber)
		changed = append(changed, "job_number")
	}
	if in.MachineID != nil {
		rep.MachineID = *in.MachineID
		changed = append(changed, "machine_id")
	}
	if in.SectionID != nil {
		rep.SectionID = *in.SectionID
		changed = append(changed, "section_id")
	}
	if in.QuantityProduced != nil {
		rep.QuantityProduced = *in.QuantityProduced
		changed = append(changed, "quantity_produced")
	}
	if in.InputRawMaterials != nil {
		rep.InputRawMaterials = *in.InputRawMaterials
		changed = append(changed, "input_raw_materials")
	}
	if in.OutputProducts != nil {
		rep.OutputProducts = *in.OutputProducts
		changed = append(changed, "output_products")
	}
	if in.ConsumablesUsed != nil {
		rep.ConsumablesUsed = *in.ConsumablesUsed
		changed = append(changed, "consumables_used")
	}
	if in.EstimatedInput != nil {
		v := *in.EstimatedInput
		rep.EstimatedInput = &v
		changed = append(changed, "estimated_input")
	}
	if in.EstimatedOutput != nil {
		v := *in.EstimatedOutput
		rep.EstimatedOutput = &v
		changed = append(changed, "estimated_output")
	}
	if in.Remarks != nil {
		rep.Remarks = *in.Remarks
		changed = append(changed, "remarks")
	}
	return changed
}

func validateFigures(rep *entity.ProductionReport) error {
	if rep.JobNumber == "" {
		return domain.Invalid("job_number", "es obligatorio")
	}
	figures := map[string]decimal.Decimal{
		"quantity_produced":   rep.QuantityProduced,
		"input_raw_materials": rep.InputRawMaterials,
		"output_products":     rep.OutputProducts,
		"consumables_used":    rep.ConsumablesUsed,
	}
	if rep.EstimatedInput != nil {
		figures["estimated_input"] = *rep.EstimatedInput
	}
	if rep.EstimatedOutput != nil {
		figures["estimated_output"] = *rep.EstimatedOutput
	}
	for _, field := range []string{"quantity_produced", "input_raw_materials", "output_products",
		"consumables_used", "estimated_input", "estimated_output"} {
		v, ok := figures[field]
		if !ok {
			continue
		}
		if v.IsNegative() {
			return domain.Invalid(field, "no puede ser negativo")
		}
		if err := domain.CheckScale(field, v); err != nil {
			return err
		}
	}
	return nil
}

func isShortage(err error) bool {
	return errors.Is(err, domain.ErrInsufficientStock)
}
