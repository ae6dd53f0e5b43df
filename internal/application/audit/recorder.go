// Package audit escribe la bitácora inmutable de reportes de producción.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/prodsys-ledger/internal/domain"
	"github.com/jhoicas/prodsys-ledger/internal/domain/entity"
	"github.com/jhoicas/prodsys-ledger/internal/domain/repository"
)

// Recorder agrega filas de bitácora. Se llama con el repositorio de la misma transacción
// que la mutación, así la bitácora nunca diverge de lo que describe.
type Recorder struct {
	now func() time.Time
}

// NewRecorder construye el recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// Record agrega una fila (reportID, actor, changeType) con nota opcional.
func (r *Recorder) Record(ctx context.Context, repo repository.ReportAuditRepository, reportID, actor, changeType, note string) (*entity.ReportAuditTrail, error) {
	if !validChangeType(changeType) {
		return nil, domain.Invalid("change_type", "tipo de cambio desconocido")
	}
	entry := &entity.ReportAuditTrail{
		ID:         uuid.New().String(),
		ReportID:   reportID,
		ChangedBy:  actor,
		ChangeType: changeType,
		Note:       note,
		CreatedAt:  r.now(),
	}
	if err := repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func validChangeType(t string) bool {
	switch t {
	case entity.ChangeTypeCreate, entity.ChangeTypeUpdate, entity.ChangeTypeApprove,
		entity.ChangeTypeDelete, entity.ChangeTypeReverse:
		return true
	}
	return false
}
